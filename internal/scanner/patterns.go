// # internal/scanner/patterns.go
package scanner

import "regexp"

// A pattern recognizes one string-lookup call shape on a single line.
// direct patterns carry the component as their second capture group;
// indirect ones attribute via path inference.
type pattern struct {
	re     *regexp.Regexp
	direct bool
}

const ident = `([a-zA-Z0-9_:.\-]+)`

var (
	// get_string('identifier', 'component')
	phpTwoArg = pattern{
		re:     regexp.MustCompile(`get_string\(\s*['"]` + ident + `['"]\s*,\s*['"]([a-zA-Z0-9_]+)['"]`),
		direct: true,
	}
	// get_string('identifier') — component inferred from the file path.
	// A variable second argument fails both patterns and is discarded.
	phpOneArg = pattern{
		re: regexp.MustCompile(`get_string\(\s*['"]` + ident + `['"]\s*\)`),
	}
	// new lang_string('identifier', 'component')
	phpLangString = pattern{
		re:     regexp.MustCompile(`new\s+lang_string\(\s*['"]` + ident + `['"]\s*,\s*['"]([a-zA-Z0-9_]+)['"]`),
		direct: true,
	}
	// {{#str}} identifier, component {{/str}}
	mustacheStr = pattern{
		re:     regexp.MustCompile(`\{\{#\s*str\s*\}\}\s*` + ident + `\s*,\s*([a-zA-Z0-9_]+)`),
		direct: true,
	}
	// str.get_string('identifier', 'component') and the AMD spelling
	// getString('identifier', 'component').
	jsGetString = pattern{
		re:     regexp.MustCompile(`(?:str\.get_string|getString)\(\s*['"]` + ident + `['"]\s*,\s*['"]([a-zA-Z0-9_]+)['"]`),
		direct: true,
	}
)

var (
	phpPatterns      = []pattern{phpTwoArg, phpOneArg, phpLangString}
	mustachePatterns = []pattern{mustacheStr}
	jsPatterns       = []pattern{jsGetString}
)

func patternsFor(ext string) []pattern {
	switch ext {
	case ".php":
		return phpPatterns
	case ".mustache":
		return mustachePatterns
	case ".js":
		return jsPatterns
	default:
		return nil
	}
}
