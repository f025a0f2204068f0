package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major number in forestc's version
	VersionMajor = 0
	// VersionMinor is the minor number in forestc's version
	VersionMinor = 1
	// VersionPatch is the patch number in forestc's version
	VersionPatch = 0
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of forestc",
		Long:  `All software has versions. This is forestc's`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("forestc v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
