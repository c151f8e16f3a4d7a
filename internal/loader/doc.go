// Package loader reads knowledge-base files into documents.
//
// Supported formats:
//
//   - .md and .txt: one document per file, read as UTF-8
//   - .pdf: one document per non-empty page, extracted with pdftotext
//
// Each document records its source path, filename, file type and the
// category derived from its location: the first directory below the
// base directory, or "general" for files directly under it.
package loader
