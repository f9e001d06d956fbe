package mcpserver

// ContentGuide describes the site document so LLM clients edit it the
// way the admin UI does.
const ContentGuide = `# Folio Content Guide

The site is one document with an intro, named sections and a list of projects.

## Sections

- ` + "`intro`" + ` is the hero block at the top of the page.
- Built-in sections: ` + "`programming`, `posts`, `utilities`, `game`, `connect`" + `.
- New sections may be added with ` + "`upsert_section`" + `. Keys are lowercase,
  start with a letter, and use only ` + "`a-z`, `0-9` and `-`" + ` (max 32 characters).
  ` + "`intro`" + ` cannot be used as a key.
- Every section has a ` + "`title`" + ` (max 200 characters) and a ` + "`description`" + `
  (max 5000 characters). Either may be empty.
- ` + "`update_field`" + ` changes exactly one of ` + "`title`" + ` or ` + "`description`" + ` and only
  works on ` + "`intro`" + ` or a section that already exists.

## Projects

- A project has a numeric ` + "`id`" + `, a ` + "`title`" + ` (1-200 characters) and a
  ` + "`description`" + ` (1-1000 characters). Surrounding whitespace is trimmed.
- Ids are assigned by the server and never reused.
- A project may have one PDF attachment, stored as ` + "`project<id>.pdf`" + ` and
  served from ` + "`/uploads/project<id>.pdf`" + `.
- Attach a PDF with ` + "`attach_project_pdf`" + `: base64 or a data URL, at most 10 MB,
  and the bytes must start with ` + "`%PDF`" + `.

## Style

- Plain text only; the front end does not render Markdown or HTML.
- Keep titles short. Descriptions are one or two sentences.
`
