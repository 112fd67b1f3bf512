// Package admin implements the operator commands of the wallet:
//
//	migrate            apply the embedded database migrations
//	create-superuser   create an active superuser, reading the password without echo
//	import-document    upload a file to object storage and record it for a user
//	provision-user     find or create an account managed by an external identity provider
package admin

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
	"github.com/lvdopqt/carteira-digital-api/internal/netx"
	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/repomanager"
	"github.com/lvdopqt/carteira-digital-api/internal/server/services"
)

const (
	CommandMigrate         = "migrate"
	CommandCreateSuperuser = "create-superuser"
	CommandImportDocument  = "import-document"
	CommandProvisionUser   = "provision-user"
)

const maxPasswordBytes = 72

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Users is implemented by services.UserService.
type Users interface {
	CreateSuperuser(ctx context.Context, email, password string, fullName *string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindOrCreateExternal(ctx context.Context, email string, fullName *string) (*models.User, error)
}

// Documents is implemented by services.DocumentService.
type Documents interface {
	Create(ctx context.Context, owner *models.User, in services.CreateDocumentInput) (*models.Document, error)
	PresignUpload(ctx context.Context, owner *models.User) (*services.UploadTarget, error)
}

type App struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	users       Users
	documents   Documents
	httpClient  *http.Client
	reader      *bufio.Reader
	out         io.Writer
	stdinFd     int
}

func NewApp(db *sql.DB, rm repomanager.RepositoryManager, users Users, documents Documents, in io.Reader, out io.Writer, stdinFd int) *App {
	return &App{
		db:          db,
		repomanager: rm,
		users:       users,
		documents:   documents,
		httpClient:  http.DefaultClient,
		reader:      bufio.NewReader(in),
		out:         out,
		stdinFd:     stdinFd,
	}
}

// Command returns the first argument naming a command and the arguments that
// follow it. Arguments before it belong to the configuration flags.
func Command(args []string) (string, []string, bool) {
	for i, a := range args {
		switch a {
		case CommandMigrate, CommandCreateSuperuser, CommandImportDocument, CommandProvisionUser:
			return a, args[i+1:], true
		}
	}
	return "", nil, false
}

// Usage prints the list of commands.
func Usage(w io.Writer) {
	fmt.Fprintln(w, "usage: admin [config flags] <command> [command flags]")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  migrate            apply database migrations")
	fmt.Fprintln(w, "  create-superuser   create an active superuser (-email, -name)")
	fmt.Fprintln(w, "  import-document    upload a file for a user (-email, -title, -type, -file)")
	fmt.Fprintln(w, "  provision-user     find or create an externally managed user (-email, -name)")
}

// Run executes args, which must start with a command name.
func (a *App) Run(ctx context.Context, args []string) error {
	cmd, rest, ok := Command(args)
	if !ok {
		return ErrUnknownCommand
	}

	switch cmd {
	case CommandMigrate:
		return a.Migrate(ctx)
	case CommandImportDocument:
		return a.ImportDocument(ctx, rest)
	case CommandProvisionUser:
		return a.ProvisionUser(ctx, rest)
	default:
		return a.CreateSuperuser(ctx, rest)
	}
}

func (a *App) Migrate(ctx context.Context) error {
	if err := a.repomanager.RunMigrations(ctx, a.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	fmt.Fprintln(a.out, "Migrations applied")
	return nil
}

// CreateSuperuser prompts for whatever -email and -name did not provide,
// then reads the password twice.
func (a *App) CreateSuperuser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet(CommandCreateSuperuser, flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "superuser email")
	name := fs.String("name", "", "superuser full name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
			return err
		}
	}
	if *email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}

	password, err := GetPassword(a.stdinFd, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := GetPassword(a.stdinFd, "Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		return ErrPasswordMismatch
	}
	if len(password) == 0 || len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be 1 to %d bytes", common.ErrorValidation, maxPasswordBytes)
	}

	var fullName *string
	if *name != "" {
		fullName = name
	}

	u, err := a.users.CreateSuperuser(ctx, *email, string(password), fullName)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return fmt.Errorf("email %s is already registered: %w", *email, err)
		}
		return err
	}

	fmt.Fprintf(a.out, "Superuser %s created with id %d\n", u.Email, u.ID)
	return nil
}

// ImportDocument uploads -file through a presigned URL under the owner's
// prefix and records it as a document of the user registered as -email.
func (a *App) ImportDocument(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet(CommandImportDocument, flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "owner email")
	title := fs.String("title", "", "document title (defaults to the file name)")
	docType := fs.String("type", "", "document type")
	path := fs.String("file", "", "file to upload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *path == "" {
		return fmt.Errorf("%w: -email and -file are required", common.ErrorValidation)
	}

	owner, err := a.users.GetByEmail(ctx, *email)
	if err != nil {
		return fmt.Errorf("owner %s: %w", *email, err)
	}

	body, err := os.ReadFile(*path)
	if err != nil {
		return err
	}

	target, err := a.documents.PresignUpload(ctx, owner)
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(*path))
	if err := netx.PutPresigned(ctx, a.httpClient, target.UploadURL, body, contentType); err != nil {
		return err
	}

	in := services.CreateDocumentInput{Title: *title, FileURL: target.FileURL}
	if in.Title == "" {
		in.Title = filepath.Base(*path)
	}
	if *docType != "" {
		in.DocumentType = docType
	}

	doc, err := a.documents.Create(ctx, owner, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Document %d stored at %s\n", doc.ID, doc.FileURL)
	return nil
}

// ProvisionUser returns the account registered as -email, creating one that
// cannot sign in with a password when there is none. Running it twice for
// the same email yields the same account.
func (a *App) ProvisionUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet(CommandProvisionUser, flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "user email")
	name := fs.String("name", "", "user full name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("%w: -email is required", common.ErrorValidation)
	}

	var fullName *string
	if *name != "" {
		fullName = name
	}

	u, err := a.users.FindOrCreateExternal(ctx, *email, fullName)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "User %s has id %d\n", u.Email, u.ID)
	return nil
}
