package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/legendastv/ltv/internal/catalog"
)

func languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported subtitle languages",
		Run: func(_ *cobra.Command, _ []string) {
			for _, lang := range catalog.Languages {
				fmt.Printf("%-4s %s\n", lang.Code, lang.Name)
			}
		},
	}
}
