package config

import "time"

// Recipe represents the hyperkit-recipe.yaml build recipe.
type Recipe struct {
	Version   int       `yaml:"version" toml:"version"`
	Name      string    `yaml:"name" toml:"name"`
	BuildFile string    `yaml:"build_file,omitempty" toml:"build_file,omitempty"`
	Format    string    `yaml:"format,omitempty" toml:"format,omitempty"` // "plain", "quoted"
	Stable    Stable    `yaml:"stable" toml:"stable"`
	Head      Head      `yaml:"head,omitempty" toml:"head,omitempty"`
	Opam      Opam      `yaml:"opam,omitempty" toml:"opam,omitempty"`
	Depends   []string  `yaml:"depends_on,omitempty" toml:"depends_on,omitempty"` // tools required on PATH
	Install   Install   `yaml:"install,omitempty" toml:"install,omitempty"`
	SmokeTest SmokeTest `yaml:"smoke_test,omitempty" toml:"smoke_test,omitempty"`
}

// Stable describes a released build: a tagged source archive and, optionally,
// a resource record that pins the version tag and revision explicitly.
type Stable struct {
	URL      string    `yaml:"url" toml:"url"`
	SHA256   string    `yaml:"sha256" toml:"sha256"`
	Resource *Resource `yaml:"resource,omitempty" toml:"resource,omitempty"`
}

// Strategy returns the version resolution strategy for released builds.
func (s Stable) Strategy() string {
	if s.Resource != nil {
		return "resource"
	}
	return "archive"
}

// Resource is a pre-declared tag and full revision hash.
type Resource struct {
	Tag      string `yaml:"tag" toml:"tag"`
	Revision string `yaml:"revision" toml:"revision"`
}

// Head describes a live checkout build.
type Head struct {
	Repo   string `yaml:"repo,omitempty" toml:"repo,omitempty"`
	Branch string `yaml:"branch,omitempty" toml:"branch,omitempty"`
}

// Opam lists the OCaml packages installed before the native build.
type Opam struct {
	Packages []string `yaml:"packages,omitempty" toml:"packages,omitempty"`
}

// Install names the build artifacts copied into the prefix.
type Install struct {
	Binary  string            `yaml:"binary,omitempty" toml:"binary,omitempty"`
	ManPage string            `yaml:"man_page,omitempty" toml:"man_page,omitempty"`
	Layout  map[string]string `yaml:"layout,omitempty" toml:"layout,omitempty"` // kind -> prefix-relative dir
}

// SmokeTest configures the boot test run against the installed binary.
type SmokeTest struct {
	Kernel  string `yaml:"kernel,omitempty" toml:"kernel,omitempty"`
	Initrd  string `yaml:"initrd,omitempty" toml:"initrd,omitempty"`
	Cmdline string `yaml:"cmdline,omitempty" toml:"cmdline,omitempty"`
	Memory  string `yaml:"memory,omitempty" toml:"memory,omitempty"`
	Timeout int    `yaml:"timeout,omitempty" toml:"timeout,omitempty"` // seconds
}

// TimeoutDuration returns the expect timeout as a duration.
func (s SmokeTest) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}
