// Command submit-lead fills in a track questionnaire and posts it to the
// save-lead endpoint, printing the checkout URL on success.
//
//	submit-lead -track coc -a fullName="Jane Doe" -a email=jane@example.com ...
//	submit-lead -track edge -print-form
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	appconfig "github.com/silentequity/lead-intake/internal/config"
	"github.com/silentequity/lead-intake/internal/leadform"
	"github.com/silentequity/lead-intake/internal/tracks"
	"github.com/silentequity/lead-intake/pkg/logging"
)

type answerFlags map[string]string

func (a answerFlags) String() string { return fmt.Sprint(map[string]string(a)) }

func (a answerFlags) Set(v string) error {
	name, value, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("expected name=value, got %q", v)
	}
	a[strings.TrimSpace(name)] = value
	return nil
}

func main() {
	_ = godotenv.Load()
	os.Exit(run(appconfig.Load(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(cfg *appconfig.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("submit-lead", flag.ContinueOnError)
	fs.SetOutput(stderr)

	answers := answerFlags{}
	track := fs.String("track", "", "track tag: "+strings.Join(trackTags(), ", "))
	baseURL := fs.String("url", cfg.LeadSiteURL, "site base URL")
	checkout := fs.String("checkout", cfg.CheckoutBaseURL, "checkout base URL")
	skipValidate := fs.Bool("skip-validation", false, "send answers without client-side checks")
	printForm := fs.Bool("print-form", false, "print the questionnaire as JSON and exit")
	timeout := fs.Duration("timeout", 15*time.Second, "request timeout")
	fs.Var(answers, "a", "answer as name=value (repeatable)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	form, err := leadform.FormFor(*track)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if *printForm {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(form); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	if !*skipValidate {
		if err := form.Validate(answers); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}

	fmt.Fprintf(stderr, "%s (%s)\n", form.Title(), form.Track.Price)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := leadform.NewClient(*baseURL, logging.New("error")).WithCheckoutBase(*checkout)
	redirect, err := client.Submit(ctx, form, answers)
	if err != nil {
		if errors.Is(err, leadform.ErrSubmissionFailed) {
			fmt.Fprintln(stderr, "Submission failed. Please try again.")
		}
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintln(stdout, redirect)
	return 0
}

func trackTags() []string {
	all := tracks.All()
	out := make([]string, 0, len(all))
	for _, t := range all {
		out = append(out, t.Tag)
	}
	return out
}
