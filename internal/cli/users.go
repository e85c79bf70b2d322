package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/recipevault/internal/github"
	"github.com/mesh-intelligence/recipevault/pkg/types"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Look up GitHub users",
		Long: `Look up GitHub users. A token from github.token in config.yaml, or from
GITHUB_API_KEY in the environment or .env, raises the rate limit.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "search <query>",
			Short: "Search GitHub users",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				users, err := a.githubClient().SearchUsers(cmd.Context(), joinArgs(args))
				if err != nil {
					return githubError(err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), users)
				}
				printUsers(cmd.OutOrStdout(), users)
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <login>",
			Short: "Show one GitHub user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				user, err := a.githubClient().GetUser(cmd.Context(), args[0])
				if err != nil {
					return githubError(err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), user)
				}
				printUsers(cmd.OutOrStdout(), []types.UserSummary{user})
				return nil
			},
		},
	)
	return cmd
}

func (a *app) githubClient() *github.Client {
	return github.NewClient(github.Config{
		BaseURL:    a.cfg.GetString(cfgKeyGitHubBaseURL),
		Token:      a.githubToken(),
		HTTPClient: a.httpClient,
		Logger:     a.log,
	})
}

// githubError reports request failures as system errors and bad arguments
// as user errors.
func githubError(err error) error {
	if errors.Is(err, github.ErrNetwork) {
		return sysError(err)
	}
	return userError(err)
}

func printUsers(w io.Writer, users []types.UserSummary) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOGIN\tPROFILE\tAVATAR")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Login, u.HTMLURL, u.AvatarURL)
	}
	_ = tw.Flush()
}
