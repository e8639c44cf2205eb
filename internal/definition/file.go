// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package definition

// File is the decoded content of a single definition file. The struct carries
// hcl tags for HCL decoding, yaml tags for YAML decoding and json tags for
// schema generation.
type File struct {
	Version  string         `hcl:"version,optional" yaml:"version" json:"version,omitempty" description:"Definition format version, e.g. 2.1."`
	Projects []*ProjectDecl `hcl:"project,block" yaml:"projects" json:"projects" required:"true"`
}

// ProjectDecl declares one project.
type ProjectDecl struct {
	Name          string     `hcl:"name,label" yaml:"name" json:"name" required:"true" description:"Project name, usually owner/repository."`
	URL           string     `hcl:"url,optional" yaml:"url" json:"url,omitempty" description:"Repository URL. Defaults to https://github.com/<name>."`
	DefaultBranch string     `hcl:"default_branch,optional" yaml:"default_branch" json:"default_branch,omitempty" description:"Branch used when no mapping applies. Defaults to main."`
	Command       string     `hcl:"command,optional" yaml:"command" json:"command,omitempty" description:"Build command template."`
	Dir           string     `hcl:"dir,optional" yaml:"dir" json:"dir,omitempty" description:"Working directory relative to the workspace root."`
	Parents       []*RefDecl `hcl:"depends_on,block" yaml:"parents" json:"parents,omitempty" description:"Projects that must be built before this one."`
	Children      []*RefDecl `hcl:"child,block" yaml:"children" json:"children,omitempty" description:"Projects that must be built after this one."`
}

// RefDecl declares a reference to another project.
type RefDecl struct {
	Project  string         `hcl:"project,label" yaml:"project" json:"project" required:"true"`
	URL      string         `hcl:"url,optional" yaml:"url" json:"url,omitempty"`
	Mappings []*MappingDecl `hcl:"mapping,block" yaml:"mapping" json:"mapping,omitempty"`
}

// MappingDecl declares a branch mapping rule.
type MappingDecl struct {
	Source string   `hcl:"source,optional" yaml:"source" json:"source,omitempty" description:"Trigger branch the rule applies to. Empty matches any branch."`
	Target string   `hcl:"target" yaml:"target" json:"target" required:"true" description:"Branch of the referenced project."`
	Flows  []string `hcl:"flows,optional" yaml:"flows" json:"flows,omitempty" description:"Flow modes the rule applies to: single, upstream, downstream, full. Empty means all."`
}
