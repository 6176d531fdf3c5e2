package model

// Package model defines domain data structures used across the app: generation
// runs, their frames, the assembled animation artifact, export tasks and the
// status enums. Structures are designed for direct use by the UI and explicit
// state transitions.
