package platform

// Package platform contains OS integration: the default output directory,
// saving animations without overwriting, and OS open/reveal.
