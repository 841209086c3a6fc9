package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dmitrijs2005/sealbox/internal/client/services"
	"github.com/dmitrijs2005/sealbox/internal/filex"
	"github.com/spf13/cobra"
)

func (a *App) files() (*services.FileService, error) {
	c, err := a.session()
	if err != nil {
		return nil, err
	}
	return services.NewFileService(c, a.cfg.MaxFileBytes), nil
}

func newUploadCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Encrypt and upload a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if info.Size() > app.cfg.MaxFileBytes {
				return fmt.Errorf("%s is larger than %d bytes", path, app.cfg.MaxFileBytes)
			}

			plaintext, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if name == "" {
				name = filepath.Base(path)
			}

			svc, err := app.files()
			if err != nil {
				return err
			}

			ctx, cancel := app.withTimeout(cmd.Context())
			defer cancel()

			id, err := svc.Upload(ctx, name, mime.TypeByExtension(filepath.Ext(name)), plaintext)
			if err != nil {
				return fmt.Errorf("upload: %w", err)
			}

			fmt.Fprintf(app.out, "Uploaded %s as %s\n", name, id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name (default: base name of path)")
	return cmd
}

func newDownloadCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <file-id>",
		Short: "Download and decrypt a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.files()
			if err != nil {
				return err
			}

			identity, err := app.unlockIdentity()
			if err != nil {
				return err
			}

			ctx, cancel := app.withTimeout(cmd.Context())
			defer cancel()

			filename, plaintext, err := svc.Download(ctx, args[0], identity)
			if err != nil {
				return fmt.Errorf("download: %w", err)
			}

			if output == "" {
				output = filepath.Base(filepath.Clean("/" + filename))
			}
			if err := filex.WriteNew(output, plaintext, 0o600); err != nil {
				return err
			}

			fmt.Fprintf(app.out, "Saved %s (%d bytes)\n", output, len(plaintext))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: stored file name)")
	return cmd
}

func newShareCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "share <file-id> <email>",
		Short: "Give another user access to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.files()
			if err != nil {
				return err
			}

			identity, err := app.unlockIdentity()
			if err != nil {
				return err
			}

			ctx, cancel := app.withTimeout(cmd.Context())
			defer cancel()

			if err := svc.Share(ctx, args[0], args[1], identity); err != nil {
				return fmt.Errorf("share: %w", err)
			}

			fmt.Fprintf(app.out, "Shared %s with %s\n", args[0], args[1])
			return nil
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List owned and shared files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.files()
			if err != nil {
				return err
			}

			ctx, cancel := app.withTimeout(cmd.Context())
			defer cancel()

			files, err := svc.List(ctx)
			if err != nil {
				return err
			}

			if len(files) == 0 {
				fmt.Fprintln(app.out, "No files.")
				return nil
			}

			w := tabwriter.NewWriter(app.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSIZE\tACCESS\tCREATED")
			for _, f := range files {
				access := "shared"
				if f.Owned {
					access = "owner"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", f.FileID, f.Filename, f.Size, access, f.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}
