package cmd

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// https://pmarsceill.github.io/just-the-docs/docs/navigation-structure/
const rootDoc = `---
layout: default
title: %s
nav_order: %d
has_children: true
permalink: /
---
`

// child command without children
const childDoc = `---
layout: default
title: %s
parent: %s
nav_order: %d
---
`

// docsCmd writes a markdown page for every command
var docsCmd = &cobra.Command{
	Use:    "docs [dir]",
	Short:  "Write markdown documentation for every command",
	Args:   cobra.ExactArgs(1),
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return makeDocs(args[0])
	},
}

func init() {
	RootCmd.AddCommand(docsCmd)
}

// makeDocs parses the commands and outputs Markdown documentation files
func makeDocs(dir string) error {
	if err := doc.GenMarkdownTreeCustom(RootCmd, dir, filePrepender, linkHandler); err != nil {
		return fmt.Errorf("failed to write docs to %s: %v", dir, err)
	}
	return nil
}

// filePrepender adds YAML headings that are required by the just-the-docs theme
// https://github.com/spf13/cobra/blob/master/doc/md_docs.md
func filePrepender(filename string) string {
	base := docBase(filename)
	if base == RootCmd.Name() {
		return fmt.Sprintf(rootDoc, base, 0)
	}

	title := strings.TrimPrefix(base, RootCmd.Name()+"_")
	for i, c := range RootCmd.Commands() {
		if c.Name() == title {
			return fmt.Sprintf(childDoc, title, RootCmd.Name(), i)
		}
	}
	return ""
}

// linkHandler returns the URL to a documentation page
func linkHandler(filename string) string {
	base := docBase(filename)
	if base == RootCmd.Name() {
		return "/"
	}
	return base
}

// docBase is the markdown file name without its directory or extension
func docBase(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, path.Ext(name))
}
