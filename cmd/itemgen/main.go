// Command itemgen builds an item description from the command line and
// renders it into export templates.
//
//	itemgen [-material M] [-name N] [-lore L]... [-f item.yaml|item.json]
//	itemgen render (-template path | -builtin name) [-o file] [item flags]
//	itemgen templates
//
// Without item flags the placeholder tokens are used as values, so a bare
// render reproduces the template as shipped.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ghuser/itemforge/pkg/config"
	"github.com/ghuser/itemforge/pkg/logger"
	"github.com/ghuser/itemforge/pkg/schema"
	appsvcs "github.com/ghuser/itemforge/services/item/application/services"
	"github.com/ghuser/itemforge/services/item/domain/models"
	domainsvcs "github.com/ghuser/itemforge/services/item/domain/services"
	"github.com/ghuser/itemforge/services/item/infrastructure/builtin"
)

// Placeholder defaults, matching the tokens the templates carry.
var (
	defaultMaterial = domainsvcs.TokenEntity
	defaultName     = domainsvcs.TokenDisplayName
	defaultLore     = []string{"%item_lore_1%", "%item_lore_2%"}
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := "create"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "create":
		err = runCreate(args, stdout, stderr)
	case "render":
		err = runRender(args, stdout, stderr)
	case "templates":
		err = runTemplates(args, stdout)
	default:
		err = usageErrorf("unknown command %q (want create, render or templates)", cmd)
	}

	var usage *usageError
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.As(err, &usage):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

// usageError is a malformed command line, reported with exit code 2.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// parseFlags parses args into fs. The flag package has already printed the
// problem and the defaults to stderr when it fails.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &usageError{err: err}
	}
	if fs.NArg() > 0 {
		return usageErrorf("unexpected argument %q", fs.Arg(0))
	}
	return nil
}

// loreFlag collects repeated -lore values.
type loreFlag []string

func (l *loreFlag) String() string { return strings.Join(*l, ", ") }

func (l *loreFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// itemFlags are shared by create and render.
type itemFlags struct {
	material string
	name     string
	lore     loreFlag
	file     string
	verbose  bool
}

func (f *itemFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.material, "material", defaultMaterial, "item material, e.g. DIAMOND_SWORD")
	fs.StringVar(&f.name, "name", defaultName, "item display name")
	fs.Var(&f.lore, "lore", "lore line (repeatable)")
	fs.StringVar(&f.file, "f", "", "read the item from a YAML file or a custom item JSON document")
	fs.BoolVar(&f.verbose, "v", false, "verbose logging to stderr")
}

// item resolves the item from the file, if any, with explicitly set flags
// taking precedence.
func (f *itemFlags) item(fs *flag.FlagSet) (models.ItemDescription, error) {
	item := models.ItemDescription{Material: f.material, Name: f.name, Lore: defaultLore}

	if f.file != "" {
		fromFile, err := readItemFile(f.file)
		if err != nil {
			return models.ItemDescription{}, err
		}
		item = fromFile
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "material":
			item.Material = f.material
		case "name":
			item.Name = f.name
		case "lore":
			item.Lore = f.lore
		}
	})
	return item, nil
}

func (f *itemFlags) logger(stderr io.Writer) logger.Logger {
	level := "warn"
	if f.verbose {
		level = "debug"
	}
	return logger.NewWithWriter(&config.Config{LogLevel: level, LogFormat: logger.FormatText, ServiceName: "itemgen"}, stderr)
}

func readItemFile(path string) (models.ItemDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ItemDescription{}, fmt.Errorf("read item file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		v, err := schema.New()
		if err != nil {
			return models.ItemDescription{}, err
		}
		return appsvcs.ParseCustomItem(v, data)
	}

	var item models.ItemDescription
	if err := yaml.Unmarshal(data, &item); err != nil {
		return models.ItemDescription{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return item, nil
}

func runCreate(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("itemgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f itemFlags
	f.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	item, err := f.item(fs)
	if err != nil {
		return err
	}

	created := domainsvcs.CreateItem(stdout, item.Material, item.Name, item.Lore)
	f.logger(stderr).Debug("item created", "material", created.Material, "lore_lines", len(created.Lore))
	return nil
}

func runRender(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("itemgen render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f itemFlags
	f.register(fs)
	templatePath := fs.String("template", "", "template file to render")
	builtinName := fs.String("builtin", "", "built-in template to render (see itemgen templates)")
	out := fs.String("o", "", "write to this file instead of stdout; a directory receives <material>_<template>")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	tmpl, err := loadTemplate(*templatePath, *builtinName)
	if err != nil {
		return err
	}
	item, err := f.item(fs)
	if err != nil {
		return err
	}

	res := domainsvcs.Export(tmpl, item)
	log := f.logger(stderr)

	if *out == "" {
		_, err := io.WriteString(stdout, res.Content)
		return err
	}

	dest := *out
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, res.FileName)
	}
	if err := os.WriteFile(dest, []byte(res.Content), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	log.Info("export written", "path", dest, "content_type", res.ContentType)
	return nil
}

func loadTemplate(path, builtinName string) (*models.ExportTemplate, error) {
	switch {
	case path != "" && builtinName != "":
		return nil, usageErrorf("-template and -builtin are mutually exclusive")
	case builtinName != "":
		name, err := models.NewTemplateFileName(builtinName)
		if err != nil {
			return nil, err
		}
		return builtin.New().Get(name)
	case path != "":
		name, err := models.NewTemplateFileName(filepath.Base(path))
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template: %w", err)
		}
		return &models.ExportTemplate{FileName: name, Content: string(data)}, nil
	default:
		return nil, usageErrorf("render needs -template or -builtin")
	}
}

func runTemplates(args []string, stdout io.Writer) error {
	if len(args) > 0 {
		return usageErrorf("templates takes no arguments")
	}
	templates, err := builtin.New().List()
	if err != nil {
		return err
	}
	for _, t := range templates {
		fmt.Fprintf(stdout, "%-28s %s\n", t.FileName, domainsvcs.ContentType(t.FileName.String()))
	}
	return nil
}
