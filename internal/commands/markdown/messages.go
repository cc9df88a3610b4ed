package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	importDirectoryMessageType = "essays.markdown.import_directory"
	syncDirectoryMessageType   = "essays.markdown.sync_directory"
	lintDirectoryMessageType   = "essays.markdown.lint_directory"
)

// ImportDirectoryCommand triggers a filesystem walk for essay documents under
// the provided Directory and writes them into the post store.
type ImportDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load essays from.
	Directory string `json:"directory"`
	// AuthorID sets the author reference recorded on created posts.
	AuthorID uuid.UUID `json:"author_id,omitempty"`
	// DryRun toggles preview mode to collect the import diff without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(directoryPresent("essays.markdown.import_directory"))),
	)
}

// SyncDirectoryCommand reconciles the post store with a directory of essays,
// optionally deleting posts whose source files disappeared.
type SyncDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load essays from.
	Directory string `json:"directory"`
	// AuthorID sets the author reference recorded on created posts.
	AuthorID uuid.UUID `json:"author_id,omitempty"`
	// DryRun toggles preview mode to collect the sync diff without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
	// DeleteOrphaned removes posts without matching essay files when true.
	DeleteOrphaned bool `json:"delete_orphaned,omitempty"`
}

// Type implements command.Message.
func (SyncDirectoryCommand) Type() string { return syncDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd SyncDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(directoryPresent("essays.markdown.sync_directory"))),
	)
}

// LintDirectoryCommand checks every essay under Directory against metadata
// and corpus invariants without touching the post store.
type LintDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load essays from.
	Directory string `json:"directory"`
	// FailOnWarnings escalates warnings to a failed run.
	FailOnWarnings bool `json:"fail_on_warnings,omitempty"`
}

// Type implements command.Message.
func (LintDirectoryCommand) Type() string { return lintDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd LintDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(directoryPresent("essays.markdown.lint_directory"))),
	)
}

func directoryPresent(scope string) func(value any) error {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(scope+".directory_required", "directory is required")
		}
		return nil
	}
}
