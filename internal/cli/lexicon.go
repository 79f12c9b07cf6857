package cli

import (
	"github.com/spf13/cobra"

	"github.com/freyjadaisy/EPQ/internal/lexicon"
)

var lexiconCount bool

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Print the marker words in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		lex, err := loadLexicon()
		if err != nil {
			return err
		}
		cmd.Printf("%d marker words\n", lex.Size())
		if lexiconCount {
			return nil
		}
		for _, w := range lex.Words() {
			cmd.Println(w)
		}
		return nil
	},
}

func init() {
	lexiconCmd.Flags().BoolVar(&lexiconCount, "count", false, "print only the number of words")
	rootCmd.AddCommand(lexiconCmd)
}

func loadLexicon() (*lexicon.Lexicon, error) {
	if settings.Analysis.LexiconFile == "" {
		return lexicon.Default(), nil
	}
	return lexicon.Load(settings.Analysis.LexiconFile)
}
