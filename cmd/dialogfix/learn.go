package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/dialogfix/internal/relay"
	"github.com/at-ishikawa/dialogfix/internal/ruletable"
)

// learnCategory is a learned table a user may add entries to.
type learnCategory string

const (
	learnCategoryName      learnCategory = "name"
	learnCategoryOverwrite learnCategory = "overwrite"
	learnCategorySubtitle  learnCategory = "subtitle"
)

var (
	_                  pflag.Value = (*learnCategory)(nil)
	allLearnCategories             = map[learnCategory]ruletable.Category{
		learnCategoryName:      ruletable.CategoryName,
		learnCategoryOverwrite: ruletable.CategoryOverwrite,
		learnCategorySubtitle:  ruletable.CategorySubtitle,
	}
)

func (c *learnCategory) Set(val string) error {
	if _, ok := allLearnCategories[learnCategory(val)]; !ok {
		return fmt.Errorf("invalid category: %s", val)
	}
	*c = learnCategory(val)
	return nil
}

func (c learnCategory) String() string {
	return string(c)
}

func (c *learnCategory) Type() string {
	return "category"
}

func newLearnCommand() *cobra.Command {
	category := learnCategoryName
	command := &cobra.Command{
		Use:   "learn <from> [to]",
		Short: "Add an entry to a learned table",
		Long: `Add an entry to a learned table in the cache directory.

A name entry maps a source-script name to its translation. An overwrite entry
replaces source text before translation. A subtitle entry maps a whole line to
its fixed translation. Names added here take precedence over the dictionary,
including names of one or two characters.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := relay.NewStore(cfg)
			if err != nil {
				return err
			}
			// Load first so the existing learned entries are written back.
			store.Load(cfg.Translation.TargetLanguage)

			from, to := args[0], ""
			if len(args) == 2 {
				to = args[1]
			}
			if err := store.AddTemp(allLearnCategories[category], from, to); err != nil {
				return fmt.Errorf("store.AddTemp() > %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "learned %s: %s -> %s\n", category, from, to)
			return err
		},
	}
	command.Flags().Var(&category, "category", "table to add to. Possible values are name, overwrite and subtitle")
	return command
}
