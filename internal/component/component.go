// # internal/component/component.go
package component

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"stringcheck/internal/cerrors"
	"stringcheck/internal/shared/util"
)

// StringKey identifies one localizable string within an installation.
type StringKey struct {
	Component  string
	Identifier string
}

func (k StringKey) String() string {
	return k.Component + "/" + k.Identifier
}

// Descriptor maps a plugin-type prefix to its path fragment relative to
// the installation root.
type Descriptor struct {
	Type     string
	Fragment string
}

// The standard plugin-type layout of a Moodle installation. Loaded once,
// never mutated.
var descriptors = []Descriptor{
	{Type: "mod", Fragment: "mod"},
	{Type: "block", Fragment: "blocks"},
	{Type: "tool", Fragment: "admin/tool"},
	{Type: "report", Fragment: "report"},
	{Type: "auth", Fragment: "auth"},
	{Type: "enrol", Fragment: "enrol"},
	{Type: "local", Fragment: "local"},
	{Type: "theme", Fragment: "theme"},
	{Type: "repository", Fragment: "repository"},
	{Type: "filter", Fragment: "filter"},
	{Type: "editor", Fragment: "lib/editor"},
	{Type: "format", Fragment: "course/format"},
	{Type: "coursereport", Fragment: "course/report"},
	{Type: "qtype", Fragment: "question/type"},
	{Type: "qbank", Fragment: "question/bank"},
	{Type: "qbehaviour", Fragment: "question/behaviour"},
	{Type: "qformat", Fragment: "question/format"},
	{Type: "gradereport", Fragment: "grade/report"},
	{Type: "gradeexport", Fragment: "grade/export"},
	{Type: "gradeimport", Fragment: "grade/import"},
	{Type: "gradingform", Fragment: "grade/grading/form"},
	{Type: "message", Fragment: "message/output"},
	{Type: "portfolio", Fragment: "portfolio"},
	{Type: "plagiarism", Fragment: "plagiarism"},
	{Type: "cachestore", Fragment: "cache/stores"},
	{Type: "cachelock", Fragment: "cache/locks"},
	{Type: "availability", Fragment: "availability/condition"},
	{Type: "calendartype", Fragment: "calendar/type"},
	{Type: "customfield", Fragment: "customfield/field"},
	{Type: "fileconverter", Fragment: "files/converter"},
	{Type: "dataformat", Fragment: "dataformat"},
	{Type: "antivirus", Fragment: "lib/antivirus"},
	{Type: "media", Fragment: "media/player"},
	{Type: "search", Fragment: "search/engine"},
	{Type: "webservice", Fragment: "webservice"},
	{Type: "profilefield", Fragment: "user/profile/field"},
	{Type: "contenttype", Fragment: "contentbank/contenttype"},
	{Type: "paygw", Fragment: "payment/gateway"},
	{Type: "mlbackend", Fragment: "lib/mlbackend"},
	{Type: "logstore", Fragment: "admin/tool/log/store"},
	{Type: "atto", Fragment: "lib/editor/atto/plugins"},
	{Type: "tiny", Fragment: "lib/editor/tiny/plugins"},
	{Type: "assignsubmission", Fragment: "mod/assign/submission"},
	{Type: "assignfeedback", Fragment: "mod/assign/feedback"},
	{Type: "booktool", Fragment: "mod/book/tool"},
	{Type: "datafield", Fragment: "mod/data/field"},
	{Type: "datapreset", Fragment: "mod/data/preset"},
	{Type: "forumreport", Fragment: "mod/forum/report"},
	{Type: "quizaccess", Fragment: "mod/quiz/accessrule"},
	{Type: "quiz", Fragment: "mod/quiz/report"},
	{Type: "scormreport", Fragment: "mod/scorm/report"},
	{Type: "workshopform", Fragment: "mod/workshop/form"},
	{Type: "workshopallocation", Fragment: "mod/workshop/allocation"},
	{Type: "workshopeval", Fragment: "mod/workshop/eval"},
	{Type: "ltisource", Fragment: "mod/lti/source"},
	{Type: "ltiservice", Fragment: "mod/lti/service"},
}

// byFragment holds the descriptors sorted longest fragment first, so that
// inverse inference tests mod/assign/submission before mod/assign before
// mod. Ties break lexicographically for determinism.
var byFragment []Descriptor

var fragmentByType = make(map[string]string, len(descriptors))

var nameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func init() {
	byFragment = make([]Descriptor, len(descriptors))
	copy(byFragment, descriptors)
	sort.Slice(byFragment, func(i, j int) bool {
		li, lj := len(byFragment[i].Fragment), len(byFragment[j].Fragment)
		if li != lj {
			return li > lj
		}
		return byFragment[i].Fragment < byFragment[j].Fragment
	})

	for _, d := range descriptors {
		fragmentByType[d.Type] = d.Fragment
	}
}

// Normalize maps component spelling aliases onto canonical form. Moodle
// treats "moodle" and the empty component as core.
func Normalize(comp string) string {
	switch comp {
	case "", "moodle":
		return "core"
	}
	return comp
}

// IsValid reports whether comp looks like a frankenstyle component: the
// literal core, core_<subsystem>, or a known {type}_{name}.
func IsValid(comp string) bool {
	comp = Normalize(comp)
	if comp == "core" {
		return true
	}
	typ, name, ok := strings.Cut(comp, "_")
	if !ok || !nameRe.MatchString(name) {
		return false
	}
	if typ == "core" {
		return true
	}
	_, known := fragmentByType[typ]
	return known
}

// Resolve maps a component onto its directory relative to the installation
// root. core and core subsystems resolve to the root itself.
func Resolve(comp string) (string, error) {
	comp = Normalize(comp)
	if comp == "core" || strings.HasPrefix(comp, "core_") {
		return "", nil
	}

	typ, name, ok := strings.Cut(comp, "_")
	if !ok {
		return "", cerrors.New(cerrors.CodeUnknownType,
			fmt.Sprintf("component %q is not of the form {type}_{name}", comp))
	}
	fragment, known := fragmentByType[typ]
	if !known {
		return "", cerrors.New(cerrors.CodeUnknownType,
			fmt.Sprintf("unknown plugin type %q in component %q", typ, comp))
	}
	return fragment + "/" + name, nil
}

// LangDir returns the directory holding the component's language packs,
// relative to the installation root.
func LangDir(comp string) (string, error) {
	base, err := Resolve(comp)
	if err != nil {
		return "", err
	}
	if base == "" {
		return "lang", nil
	}
	return base + "/lang", nil
}

// LangFileName returns the conventional definition file name for the
// component inside a lang/<code>/ directory. Activity modules use the bare
// plugin name, core uses moodle.php, core subsystems use the subsystem
// name, everything else uses the full frankenstyle name.
func LangFileName(comp string) string {
	comp = Normalize(comp)
	if comp == "core" {
		return "moodle.php"
	}
	if sub, ok := strings.CutPrefix(comp, "core_"); ok {
		return sub + ".php"
	}
	if name, ok := strings.CutPrefix(comp, "mod_"); ok {
		return name + ".php"
	}
	return comp + ".php"
}

// Infer attributes a file path (relative to the installation root) to a
// component via the plugin-type table, or returns "" when nothing matches.
func Infer(relPath string) string {
	relPath = util.NormalizePatternPath(relPath)
	for _, d := range byFragment {
		name := util.SegmentAfter(relPath, d.Fragment)
		if name == "" || !nameRe.MatchString(name) {
			continue
		}
		// A file sitting directly in the fragment dir (mod/upgrade.txt)
		// fails the name pattern; a bare plugin dir with no file under it
		// is not a usage site either.
		if relPath == util.NormalizePatternPath(d.Fragment+"/"+name) {
			continue
		}
		return d.Type + "_" + name
	}
	return ""
}
