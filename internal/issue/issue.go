// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	stdslices "slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ClasspathEmptyId Id = iota + 1
	ConfigLoadFailedId
	ConfigurationConflictId
	MissingMandatoryBundleId
	LauncherNotFoundId
	ExtractionFailedId
	JavaNotFoundId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
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
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

const runtimeOptionsLink HttpLink = "https://help.eclipse.org/latest/topic/org.eclipse.platform.doc.isv/reference/misc/runtime-options.html"

var (
	render = glamour.Render

	classpathEmptyIssue = &Issue{
		id: ClasspathEmptyId,
		mdMsg: `
# No classpath entries!

osgilaunch needs the jars and directories of your application to find its bundles.

## Things you can try:
- Pass them as a path list:
~~~
$ osgilaunch launch --classpath "libs/org.eclipse.osgi.jar:libs/simpleconfigurator.jar"
~~~

- Or write one entry per line into a file:
~~~
$ osgilaunch launch --classpath-file target/classpath.txt
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the launcher configuration!

The configuration file could not be read or does not match the schema.

## Search locations (in order of precedence):
1. The --config flag
2. The OSGILAUNCH_CONFIG environment variable
3. osgilaunch/launcher.cue in your user configuration directory
4. launcher.cue or launcher.yaml in the current directory

## Things you can try:
- Print the configuration osgilaunch would use:
~~~
$ osgilaunch config show
~~~

- Start from the defaults:
~~~
$ osgilaunch config dump > launcher.cue
~~~`,
		extLinks: []HttpLink{runtimeOptionsLink},
	}

	configurationConflictIssue = &Issue{
		id: ConfigurationConflictId,
		mdMsg: `
# Conflicting launcher configuration!

A product id was given with -launcher.product.id, but the runtime arguments already select a product with -product.

## Things you can try:
- Remove -product from runtime_arguments in your configuration
- Or drop the -launcher.product.id argument`,
	}

	missingMandatoryBundleIssue = &Issue{
		id: MissingMandatoryBundleId,
		mdMsg: `
# Mandatory bundle missing!

Only the simple configurator launch style is supported. The classpath must contain both:

- **org.eclipse.osgi**, the framework itself
- **org.eclipse.equinox.simpleconfigurator**, which installs the bundles listed in bundles.info

## Things you can try:
- Add the missing bundles to your build's runtime dependencies
- List what osgilaunch found on the classpath:
~~~
$ osgilaunch bundles --classpath-file target/classpath.txt
~~~`,
		extLinks: []HttpLink{runtimeOptionsLink},
	}

	launcherNotFoundIssue = &Issue{
		id: LauncherNotFoundId,
		mdMsg: `
# Equinox launcher not found!

No bundle named org.eclipse.equinox.launcher is on the classpath, so there is nothing to start the framework with.

## Things you can try:
- Add org.eclipse.equinox.launcher to your runtime dependencies
- Generate the configuration only and start the framework yourself:
~~~
$ osgilaunch generate --classpath-file target/classpath.txt
~~~`,
	}

	extractionFailedIssue = &Issue{
		id: ExtractionFailedId,
		mdMsg: `
# Failed to explode a bundle!

A bundle declaring Eclipse-BundleShape: dir could not be extracted into the configuration directory.

## Things you can try:
- Check that the jar is not corrupt:
~~~
$ unzip -t path/to/bundle.jar
~~~

- Remove the .explode directory below the configuration directory and retry`,
	}

	javaNotFoundIssue = &Issue{
		id: JavaNotFoundId,
		mdMsg: `
# Java runtime not found!

osgilaunch starts the framework with a Java runtime but could not find one.

## Things you can try:
- Set JAVA_HOME to your JDK installation
- Or point java_binary at the executable in your configuration:
~~~cue
java_binary: "/usr/lib/jvm/java-21/bin/java"
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to write the launch configuration.

## Things you can try:
- Check the permissions of the configuration directory
- Choose another directory:
~~~
$ osgilaunch launch --configuration-dir ./target/osgi-configuration
~~~`,
	}

	issues = map[Id]*Issue{
		classpathEmptyIssue.Id():         classpathEmptyIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		configurationConflictIssue.Id():  configurationConflictIssue,
		missingMandatoryBundleIssue.Id(): missingMandatoryBundleIssue,
		launcherNotFoundIssue.Id():       launcherNotFoundIssue,
		extractionFailedIssue.Id():       extractionFailedIssue,
		javaNotFoundIssue.Id():           javaNotFoundIssue,
		permissionDeniedIssue.Id():       permissionDeniedIssue,
	}
)

// Values returns every known issue ordered by Id.
func Values() []*Issue {
	out := stdslices.Collect(maps.Values(issues))
	stdslices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
