package filter

// DefaultFileGlobs defines file patterns whose exports are rarely meant to be
// imported from application code and are thus excluded by default to reduce noise.
var DefaultFileGlobs = []string{
	// Test and spec files: their exports only serve the test runner.
	"*.test.*",
	"*.spec.*",

	// Storybook stories.
	"*.stories.*",

	// Manual mocks and fixtures.
	"__mocks__",
	"__fixtures__",
}

// GetDefaults returns the default file globs.
func GetDefaults() []string {
	// Return a copy to prevent mutation of the global slice
	dst := make([]string, len(DefaultFileGlobs))
	copy(dst, DefaultFileGlobs)
	return dst
}
