// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	PackageNotFoundId Id = iota + 1
	NotInstalledId
	ManifestParseErrorId
	ContainerEngineNotFoundId
	DockerfileNotFoundId
	DependencyCycleId
	HookScriptFailedId
	SecretConflictId
	ConfigLoadFailedId
	PermissionDeniedId
	InstallFailedId
	UninstallFailedId
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

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Package not found!

The package you named is not known to the package manager, so there is
nothing to install directives for.

## Things you can try:
- Check for typos in the package name
- Verify the package is installed:
~~~
$ python3 -m pip show <package>
~~~

- Install the package first, then run instdirs again:
~~~
$ python3 -m pip install <package>
$ instdirs <package> install
~~~

- If pip lives under a different interpreter, point instdirs at it:
~~~toml
# ~/.config/instdirs/config.toml
python = "/path/to/python"
~~~`,
	}

	notInstalledIssue = &Issue{
		id: NotInstalledId,
		mdMsg: `
# Directives were never installed!

You asked to uninstall directives for a package that has no state directory,
which means install was never run (or its state was already removed).

## Things you can try:
- Run install first:
~~~
$ instdirs <package> install
~~~

- Check which state directories exist:
~~~
$ ls ~/.instdirs
~~~

- If you moved the state root, set it in your config:
~~~toml
state_root = "/path/to/state"
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse directives.cue!

The package ships a directives manifest but it contains syntax errors or
invalid configuration.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- A "package" field that does not match the package being processed
- Secrets with empty names

## Things you can try:
- Check the error message above for the specific line/column
- Validate the CUE syntax using the cue command-line tool
- Run with verbose mode for more details:
~~~
$ instdirs --verbose <package> install
~~~

## Example of a valid manifest:
~~~cue
package: "my_pkg"

data: managed: true

images: context_dir: "docker_images"

secrets: [
  {name: "api_token", remove_on_uninstall: true},
]

hooks: install: """
  echo "installing $INSTDIRS_PACKAGE $INSTDIRS_NEW_VERSION"
  """
~~~`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

The package declares container images or secrets, but no container engine
is available on this system.

## Supported container engines:
- **Podman** (recommended for rootless containers)
- **Docker**

## Things you can try:
- Install Podman:
  - Linux: ` + "`sudo apt install podman`" + ` or ` + "`sudo dnf install podman`" + `
  - macOS: ` + "`brew install podman`" + `
  - Windows: Download from https://podman.io

- Install Docker:
  - https://docs.docker.com/get-docker/

- Configure your preferred engine in ~/.config/instdirs/config.toml:
~~~toml
engine = "podman"  # or "docker", or "auto"
~~~`,
	}

	dockerfileNotFoundIssue = &Issue{
		id: DockerfileNotFoundId,
		mdMsg: `
# Dockerfile not found!

An image artifact was declared in the manifest, but its directory has no
Dockerfile to build from.

## How image artifacts are discovered:
Each subdirectory of the images context directory (default: docker_images)
that contains a Dockerfile becomes one image artifact named after the
subdirectory.

## Things you can try:
- Create a Dockerfile in the artifact's directory:
~~~
<location>/<package>/docker_images/<name>/Dockerfile
~~~

- Remove the artifact from the manifest's images.names list
- Check that the context_dir in the manifest points at the right directory`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Image dependency cycle detected!

The FROM lines of your image artifacts form a cycle, so there is no order
in which they can all be built.

## Example of a cycle:
~~~dockerfile
# docker_images/a/Dockerfile
FROM b:latest

# docker_images/b/Dockerfile
FROM a:latest   # Cycle: a -> b -> a
~~~

## Things you can try:
- Review the FROM line of each artifact's Dockerfile
- Base each artifact on an external image or on exactly one in-set image
- Use a linear base chain instead`,
	}

	hookScriptFailedIssue = &Issue{
		id: HookScriptFailedId,
		mdMsg: `
# Hook script failed!

A hook script from the package's directives.cue exited with a non-zero
status, so the lifecycle phase was aborted.

## Common causes:
- Command not found in PATH
- Permission denied
- Syntax error in the script
- The script relies on tools that are not installed

## Things you can try:
- Run with verbose mode for more details:
~~~
$ instdirs --verbose <package> install
~~~

- Test the script manually in your shell from the package's location
- Remember the environment the script sees: INSTDIRS_PACKAGE,
  INSTDIRS_VERSION, INSTDIRS_STATE_DIR, INSTDIRS_DATA_DIR (plus
  INSTDIRS_OLD_VERSION / INSTDIRS_NEW_VERSION on install)`,
	}

	secretConflictIssue = &Issue{
		id: SecretConflictId,
		mdMsg: `
# Secret already exists!

A secret was declared with strict creation semantics, but the container
engine already holds a secret with that name.

## Things you can try:
- List the engine's secrets:
~~~
$ docker secret ls    # or: podman secret ls
~~~

- Remove the stale secret and retry:
~~~
$ docker secret rm <name>
~~~

- If keeping the existing value is fine, the default (tolerant) secret
  handling warns and continues instead of failing`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the instdirs configuration file.

## Configuration file locations:
- Linux: ~/.config/instdirs/config.toml
- macOS: ~/Library/Application Support/instdirs/config.toml
- Windows: %APPDATA%\instdirs\config.toml

## Things you can try:
- Check the TOML syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/instdirs/config.toml
~~~

## Example configuration:
~~~toml
state_root = "~/.instdirs"
engine = "auto"
python = "python3"
no_color = false
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- The state root or data directory is owned by another user
- A hook script touches a protected path
- The container engine requires elevated permissions

## Things you can try:
- Check file/directory permissions under the state root
- For containers, ensure you're in the docker/podman group:
~~~
$ sudo usermod -aG docker $USER
~~~

- Use rootless containers with Podman
- Point state_root at a directory you own`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Install failed!

A step of the install lifecycle failed. The package's state directory was
rolled back, but hook scripts, images, and secrets may have left partial
results behind. You may need to manually intervene to remove leftover
pieces.

## Things you can try:
- Run with verbose mode to see which step failed:
~~~
$ instdirs --verbose <package> install
~~~

- Check for half-built images and stale secrets:
~~~
$ docker images | grep <package>
$ docker secret ls
~~~

- Fix the cause and run install again; the lifecycle is safe to re-run`,
	}

	uninstallFailedIssue = &Issue{
		id: UninstallFailedId,
		mdMsg: `
# Uninstall failed!

A step of the uninstall lifecycle failed. Nothing is rolled back on
uninstall (the state directory is kept so you can retry), but earlier
steps may already have removed images or secrets.

## Things you can try:
- Run with verbose mode to see which step failed:
~~~
$ instdirs --verbose <package> uninstall
~~~

- Fix the cause and run uninstall again
- As a last resort, remove the state directory by hand:
~~~
$ rm -r ~/.instdirs/<package>
~~~`,
	}

	issues = map[Id]*Issue{
		packageNotFoundIssue.Id():         packageNotFoundIssue,
		notInstalledIssue.Id():            notInstalledIssue,
		manifestParseErrorIssue.Id():      manifestParseErrorIssue,
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		dockerfileNotFoundIssue.Id():      dockerfileNotFoundIssue,
		dependencyCycleIssue.Id():         dependencyCycleIssue,
		hookScriptFailedIssue.Id():        hookScriptFailedIssue,
		secretConflictIssue.Id():          secretConflictIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		permissionDeniedIssue.Id():        permissionDeniedIssue,
		installFailedIssue.Id():           installFailedIssue,
		uninstallFailedIssue.Id():         uninstallFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
