// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	SubcommandMissingId Id = iota + 1
	ProjectFileInvalidId
	SubmoduleManifestInvalidId
	SubmoduleFetchFailedId
	SubsystemBuildFailedId
	NumericHeadersNotFoundId
	CompilationFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	subcommandMissingIssue = &Issue{
		id: SubcommandMissingId,
		mdMsg: `
# No subcommand given!

The build core needs the host frontend's subcommand (for example ` + "`build_ext`" + `
or ` + "`sdist`" + `) to decide whether native compilation is required.

## Things you can try:
- Pass the subcommand after the flags:
~~~
$ infinibuild exec build_ext --inplace
~~~
- Preview the decisions without running anything:
~~~
$ infinibuild plan bdist_wheel
~~~`,
	}

	projectFileInvalidIssue = &Issue{
		id: ProjectFileInvalidId,
		mdMsg: `
# Failed to load the project layout!

The project layout is read from ` + "`infinibuild.cue`" + ` at the project root, or
from the ` + "`[tool.infinibuild]`" + ` table of ` + "`pyproject.toml`" + `.

## Common issues:
- Invalid CUE or TOML syntax
- Unknown field names
- ` + "`submodules.fetcher`" + ` set to something other than "command" or "builtin"
- Command strings with unbalanced quotes

## Example infinibuild.cue:
~~~cue
submodules: fetcher: "command"
subsystems: {
  terrain:  "make terrain"
  renderer: "make customgt"
}
frontend: command: "python3 tools/build_frontend.py"
~~~`,
	}

	submoduleManifestInvalidIssue = &Issue{
		id: SubmoduleManifestInvalidId,
		mdMsg: `
# Could not read the submodule manifest!

The submodule list is parsed from ` + "`.gitmodules`" + `. The build continues, but
external sources may be missing.

## Things you can try:
- Check that every ` + "`[submodule]`" + ` section has a relative ` + "`path`" + `
- Restore the manifest from version control:
~~~
$ git checkout -- .gitmodules
~~~`,
	}

	submoduleFetchFailedIssue = &Issue{
		id: SubmoduleFetchFailedId,
		mdMsg: `
# Submodules could not be fetched!

This is normal in restricted build environments such as pre-packaged source
distributions. If you are building from a git checkout, fetch them manually:
~~~
$ git submodule update --init --recursive
~~~`,
	}

	subsystemBuildFailedIssue = &Issue{
		id: SubsystemBuildFailedId,
		mdMsg: `
# A native subsystem failed to build!

The package is still built, but the affected feature (terrain or renderer)
will be unavailable.

## Things you can try:
- Check that a C/C++ toolchain and ` + "`make`" + ` are installed
- Rebuild the subsystem by hand to see the full compiler output:
~~~
$ make terrain
~~~
- Disable the subsystem:
~~~
$ INSTALL_TERRAIN_FLAG=False infinibuild exec build_ext
~~~`,
	}

	numericHeadersNotFoundIssue = &Issue{
		id: NumericHeadersNotFoundId,
		mdMsg: `
# Could not locate the numeric array library headers!

Extension modules are compiled against numpy's C headers.

## Things you can try:
- Install numpy into the build environment:
~~~
$ python3 -m pip install numpy
~~~
- Point the build at the headers explicitly:
~~~cue
extensions: numeric_include_dir: "/path/to/numpy/core/include"
~~~`,
	}

	compilationFailedIssue = &Issue{
		id: CompilationFailedId,
		mdMsg: `
# Extension compilation failed!

The native-extension compiler frontend reported an error. This aborts the
packaging run.

## Things you can try:
- Re-run with ` + "`--verbose`" + ` to see the frontend output
- Build a pure interpreted package instead:
~~~
$ MINIMAL_INSTALL_FLAG=True infinibuild exec build_ext
~~~`,
		extLinks: []HttpLink{"https://cython.readthedocs.io/en/latest/src/userguide/source_files_and_compilation.html"},
	}

	issues = map[Id]*Issue{
		subcommandMissingIssue.Id():        subcommandMissingIssue,
		projectFileInvalidIssue.Id():       projectFileInvalidIssue,
		submoduleManifestInvalidIssue.Id(): submoduleManifestInvalidIssue,
		submoduleFetchFailedIssue.Id():     submoduleFetchFailedIssue,
		subsystemBuildFailedIssue.Id():     subsystemBuildFailedIssue,
		numericHeadersNotFoundIssue.Id():   numericHeadersNotFoundIssue,
		compilationFailedIssue.Id():        compilationFailedIssue,
	}
)

// Values returns every catalog entry.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
