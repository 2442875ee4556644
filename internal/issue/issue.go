// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	TaskfileNotFoundId Id = iota + 1
	TaskfileParseErrorId
	TaskNotFoundId
	ConfigLoadFailedId
	DependencyCycleId
	ShellNotFoundId
	TaskTimeoutId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	taskfileNotFoundIssue = &Issue{
		id: TaskfileNotFoundId,
		mdMsg: `
# No taskmill.toml found!

We searched for a task file but couldn't find one in the current directory.

## Things you can try:
- Change into a directory that has a taskmill.toml
- Create one next to your project's other top-level files:
~~~toml
[project]
name = "my-service"

[tasks.build]
run = "go build ./..."

[tasks.test]
run = "go test ./..."
description = "Run the test suite"
~~~

- Or point at a differently named file via your config:
~~~
$ taskmill config show
~~~`,
	}

	taskfileParseErrorIssue = &Issue{
		id: TaskfileParseErrorId,
		mdMsg: `
# Failed to parse taskmill.toml!

Your task file contains syntax errors or invalid configuration.

## Common issues:
- Invalid TOML syntax (missing quotes, brackets, etc.)
- Unknown field names in a task table
- A "run" value that is neither a command string nor a list of task names
- Task nesting deeper than three levels

## Things you can try:
- Check the error message above for the specific line/column
- Validate the whole file without running anything:
~~~
$ taskmill validate
~~~

## Example of a valid task table:
~~~toml
[tasks.test.unit]
run = "go test ./..."
description = "Unit tests only"
timeout = 120
stream_output = true
~~~`,
	}

	taskNotFoundIssue = &Issue{
		id: TaskNotFoundId,
		mdMsg: `
# Task not found!

The task you asked for doesn't match anything in the task file.

## Things you can try:
- List all available tasks:
~~~
$ taskmill tasks
~~~

- Check for typos in the task name
- Remember that nested tasks are addressed with dots or spaces:
~~~
$ taskmill db.migrate.up
$ taskmill db migrate up
~~~

- A bare namespace only works when it defines a _default task`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the taskmill configuration file.

## Configuration file locations:
- Linux: ~/.config/taskmill/config.cue
- macOS: ~/Library/Application Support/taskmill/config.cue
- Windows: %APPDATA%\taskmill\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ taskmill config init
~~~

- Print the exact path taskmill reads:
~~~
$ taskmill config path
~~~

- Remove the config file to fall back to defaults

## Example configuration:
~~~cue
taskfile_name: "taskmill.toml"
default_timeout: 300

workspace: {
    root: "~/src"
    parallel: false
}

ui: {
    verbose: false
    color: "auto"
}
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Composite task cycle detected!

Your composite tasks reference each other in a loop, which would never
finish.

## Example of a cycle:
~~~toml
[tasks.a]
run = ["b"]

[tasks.b]
run = ["a"]   # Cycle: a -> b -> a
~~~

## Things you can try:
- Review the run lists of the tasks named in the error
- Break the loop by inlining one side as a plain command
- Remember that a bare namespace name in a run list resolves to its
  _default task, which can close a loop indirectly`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

Could not find a shell to run your task's command.

## Shells we look for:
- Linux/macOS: $SHELL, bash, sh
- Windows: pwsh, powershell, cmd

## Things you can try:
- Install bash or another POSIX shell
- Set the SHELL environment variable to your shell's path`,
	}

	taskTimeoutIssue = &Issue{
		id: TaskTimeoutId,
		mdMsg: `
# Task timed out!

The task ran longer than its timeout allows, so taskmill killed it.
Timed out tasks report exit code 124.

## Things you can try:
- Raise the timeout in the task table (seconds):
~~~toml
[tasks.integration]
run = "go test -tags=integration ./..."
timeout = 1800
~~~

- Check whether the command is waiting on input; taskmill tasks are
  non-interactive by default
- Split long work into smaller tasks and chain them:
~~~toml
[tasks.ci]
run = ["build", "test", "integration"]
~~~`,
	}

	issues = map[Id]*Issue{
		taskfileNotFoundIssue.Id():   taskfileNotFoundIssue,
		taskfileParseErrorIssue.Id(): taskfileParseErrorIssue,
		taskNotFoundIssue.Id():       taskNotFoundIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		dependencyCycleIssue.Id():    dependencyCycleIssue,
		shellNotFoundIssue.Id():      shellNotFoundIssue,
		taskTimeoutIssue.Id():        taskTimeoutIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
