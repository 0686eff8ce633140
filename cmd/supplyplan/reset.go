package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored document",
	Args:  cobra.NoArgs,
	RunE:  withApp(runReset),
}

var resetYes bool

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deletion")
}

func runReset(cmd *cobra.Command, _ []string, a *app) error {
	if !resetYes {
		return errors.New("refusing to delete without --yes")
	}
	if err := a.docs.Reset(cmd.Context()); err != nil {
		return err
	}
	a.out.Infof("Все документы удалены")
	return nil
}
