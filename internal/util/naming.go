package util

// MissingValue is the placeholder rendered for absent values in reports.
const MissingValue = "—"
