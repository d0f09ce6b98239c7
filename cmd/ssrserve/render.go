// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thediveo/ssrserve"
	"github.com/thediveo/ssrserve/app"
	"github.com/thediveo/ssrserve/hydrate"
	"github.com/thediveo/ssrserve/route"
)

func renderCmd(g *globals) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "render [PATH]",
		Short: "Render a single page to stdout",
		Long: `Render the page for PATH (default "/") to stdout, exactly as the
server would deliver it.

With --check, the rendered document is also hydrated with a freshly built
client-side view tree, reporting any mismatch the browser would run into.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := "/"
			if len(args) == 1 {
				location = args[0]
			}
			return renderPage(cmd.Context(), g.logger, cmd.OutOrStdout(), location, check)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check that the client hydrates the page")
	return cmd
}

func renderPage(ctx context.Context, logger *slog.Logger, w io.Writer, location string, check bool) error {
	rc := &ssrserve.RenderContext{Path: route.Clean(location)}
	doc, err := ssrserve.NewRenderer(serverApp).Render(ctx, rc)
	if err != nil {
		return err
	}
	if check {
		if err := checkHydration(doc, rc.Path); err != nil {
			return err
		}
		logger.Info("page hydrates", slog.String("path", rc.Path))
	}
	_, err = io.WriteString(w, doc)
	return err
}

// checkHydration hydrates the rendered document the way the browser client
// does: with a new store and a router at the document's location.
func checkHydration(doc, location string) error {
	dom, err := hydrate.ParseHTMLString(doc)
	if err != nil {
		return err
	}
	root, ok := dom.ElementByID(ssrserve.DefaultRootID)
	if !ok {
		return fmt.Errorf("document lacks #%s element", ssrserve.DefaultRootID)
	}
	return hydrate.Root(root, app.Mount(app.NewStore(), route.NewStatic(location)))
}
