package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/client-project-manager/pkg/db"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/client-project-manager/pkg/server/store/gorm"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long:  `Manage the users who can log in to the API.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'user' requires a subcommand (create, list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
}

// openUsersStore connects to DATABASE_URL.
var openUsersStore = func() (store.UsersStore, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}
	return gormstore.NewUsersStore(database), nil
}
