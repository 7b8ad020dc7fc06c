package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/client-project-manager/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/store"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user",
	Long: `Create a user who can log in with a username and password.

The password is taken from --password, then CPM_PASSWORD, and is otherwise
read from the first line of standard input.

Example:
  cpmctl user create alice --password 'correct horse battery'
  echo 'correct horse battery' | cpmctl user create alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("CPM_PASSWORD")
		}
		if password == "" {
			p, err := readPassword(cmd.InOrStdin())
			if err != nil {
				fmt.Fprintln(os.Stderr, "Failed to read password:", err)
				os.Exit(1)
			}
			password = p
		}

		users, err := openUsersStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		if err := createUser(cmd.Context(), users, cmd.OutOrStdout(), args[0], password); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to create user:", err)
			os.Exit(1)
		}
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().String("password", "", "password for the new user")
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("no password given")
	}
	return line, nil
}

func createUser(ctx context.Context, users store.UsersStore, out io.Writer, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username may not be blank")
	}
	if len(username) > 150 {
		return errors.New("username may not be longer than 150 characters")
	}

	hash, err := authn.HashPassword([]byte(password))
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	user, err := users.CreateUser(ctx, username, hash)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return fmt.Errorf("user %q already exists", username)
		}
		return err
	}

	fmt.Fprintf(out, "Created user %s (id %d)\n", user.Username, user.ID)
	return nil
}
