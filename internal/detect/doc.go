// Package detect compares old and new media records and classifies what
// changed: typed change descriptors per technical category, plus the
// rename heuristic that tells a moved file apart from new content.
package detect
