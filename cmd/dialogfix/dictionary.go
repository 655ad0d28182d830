package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dialogfix/internal/relay"
	"github.com/at-ishikawa/dialogfix/internal/ruletable"
)

func newDictionaryCommand() *cobra.Command {
	rootCommand := cobra.Command{
		Use:   "dictionary",
		Short: "Inspect the rule tables",
	}
	var targetLanguage string
	rootCommand.PersistentFlags().StringVar(&targetLanguage, "to", "", "target language, overriding translation.target_language")

	loadRuleSet := func() (*ruletable.RuleSet, error) {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		store, err := relay.NewStore(cfg)
		if err != nil {
			return nil, err
		}
		if targetLanguage == "" {
			targetLanguage = cfg.Translation.TargetLanguage
		}
		return store.Load(targetLanguage), nil
	}

	rootCommand.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print the number of entries in every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := loadRuleSet()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "%s (%s)\n", rs.TargetLanguage, rs.Variant); err != nil {
				return err
			}
			for _, s := range relay.RuleSetStats(rs) {
				if _, err := fmt.Fprintf(out, "%-16s %d\n", s.Name, s.Len); err != nil {
					return err
				}
			}
			return nil
		},
	})

	rootCommand.AddCommand(&cobra.Command{
		Use:   "lookup <name>",
		Short: "Look a name up in the combined table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := loadRuleSet()
			if err != nil {
				return err
			}
			translation, ok := rs.ResolveName(args[0])
			if !ok {
				return fmt.Errorf("%s is not in the dictionary", args[0])
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], translation)
			return err
		},
	})
	return &rootCommand
}
