package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"newsbrief/internal/render"
)

func runCMD() *cobra.Command {
	var cfgPath string
	var save bool
	var noPrompt bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build one news brief and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			logger := log.New(os.Stdout, "[NEWSBRIEF] ", log.LstdFlags)

			cfg, err := loadConfig(cfgPath, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := buildApp(cfg, nil, logger)
			b, err := a.RunCycle(ctx)
			if err != nil {
				return err
			}

			render.Console(os.Stdout, b, cfg.DateFormat)

			saveBrief := cfg.AutoSave || save
			if !saveBrief && !noPrompt {
				saveBrief = askYesNo("Save brief to file? (y/n): ")
			}
			a.Deliver(b, saveBrief)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config.json)")
	cmd.Flags().BoolVar(&save, "save", false, "save the brief to the output directory without prompting")
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "never prompt; only auto_save or --save write the file")
	return cmd
}

// askYesNo prompts on stdout and reads one line from stdin. It answers
// no when stdin is not interactive so scripted runs never block.
func askYesNo(prompt string) bool {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return false
	}
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
