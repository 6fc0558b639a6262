package mcpserver

// EntryFormatContract describes the Markdown entry format that LLM
// consumers should follow when creating entries.
const EntryFormatContract = `# linkshelf Entry Format Contract

Every bookmarked link is one Markdown file with YAML frontmatter.

## Structure

` + "```" + `markdown
---
title: Human-readable title     # REQUIRED
url: https://example.com/page   # REQUIRED – the bookmarked page
imageUrl: https://example.com/cover.png   # may be ""
tags:                           # tags from the vocabulary, may be []
  - tag-one
path: folder                    # OPTIONAL – only when filed under a subfolder
---

Page description, or "No description".
` + "```" + `

## Rules

1. **Use create_entry.** It scrapes Open Graph metadata, slugifies the title into
   the file name and refuses to overwrite an existing entry.
2. **Tags** must be names returned by ` + "`" + `list_tags` + "`" + `; unknown tags are rejected.
3. **File names** are the slug of the title: lowercase ASCII letters, digits and
   single hyphens, ending in ` + "`" + `.md` + "`" + `.
4. **Folders** are first-level directories of the entries root only.
5. **Images** are cached by ` + "`" + `cache_images` + "`" + ` as ` + "`" + `<entry-name>.<ext>` + "`" + ` next to
   the entry, with the extension taken from the image content.
6. **Encoding** is UTF-8 with a trailing newline; YAML uses two-space indentation.
`
