package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Command Definition
// --------------------------------------------------------------------------

// Command is a single request sent from a client to the server.
// The set of commands is closed: every variant is defined in this file and
// routes itself to exactly one method of a CommandHandler.
type Command interface {
	// Kind returns the discriminant of the command
	Kind() CommandKind
	// Accept calls the handler method that belongs to this variant
	Accept(h CommandHandler) (Response, error)
}

// CommandHandler is implemented by everything that executes commands (e.g. the server dispatcher).
// Each method corresponds to exactly one Command variant.
type CommandHandler interface {
	HandleStore(cmd StoreCommand) (Response, error)
	HandleUpdateList(cmd UpdateListCommand) (Response, error)
	HandleGet(cmd GetCommand) (Response, error)
	HandleCreateOwner(cmd CreateOwnerCommand) (Response, error)
	HandleListCatalog(cmd ListCatalogCommand) (Response, error)
	HandleDeleteOwner(cmd DeleteOwnerCommand) (Response, error)
}

// StoreCommand persists a brand-new list for an owner
type StoreCommand struct {
	Owner string
	List  string
}

// UpdateListCommand overwrites the list of an existing owner
type UpdateListCommand struct {
	Owner string
	List  string
}

// GetCommand fetches the serialized list of an owner
type GetCommand struct {
	Owner string
}

// CreateOwnerCommand registers an owner without a list
type CreateOwnerCommand struct {
	Owner string
}

// ListCatalogCommand fetches one of the read-only reference catalogs.
// CatalogFruits is sent as ListCatalogA and CatalogSuppliers as ListCatalogB.
type ListCatalogCommand struct {
	Catalog Catalog
}

// DeleteOwnerCommand removes an owner and its list
type DeleteOwnerCommand struct {
	Owner string
}

func (c StoreCommand) Kind() CommandKind       { return CmdStore }
func (c UpdateListCommand) Kind() CommandKind  { return CmdUpdateList }
func (c GetCommand) Kind() CommandKind         { return CmdGet }
func (c CreateOwnerCommand) Kind() CommandKind { return CmdCreateOwner }
func (c DeleteOwnerCommand) Kind() CommandKind { return CmdDeleteOwner }

func (c ListCatalogCommand) Kind() CommandKind {
	if c.Catalog == CatalogSuppliers {
		return CmdListCatalogB
	}
	return CmdListCatalogA
}

func (c StoreCommand) Accept(h CommandHandler) (Response, error) { return h.HandleStore(c) }
func (c UpdateListCommand) Accept(h CommandHandler) (Response, error) {
	return h.HandleUpdateList(c)
}
func (c GetCommand) Accept(h CommandHandler) (Response, error) { return h.HandleGet(c) }
func (c CreateOwnerCommand) Accept(h CommandHandler) (Response, error) {
	return h.HandleCreateOwner(c)
}
func (c ListCatalogCommand) Accept(h CommandHandler) (Response, error) {
	return h.HandleListCatalog(c)
}
func (c DeleteOwnerCommand) Accept(h CommandHandler) (Response, error) {
	return h.HandleDeleteOwner(c)
}

// --------------------------------------------------------------------------
// Command Factory Functions
// --------------------------------------------------------------------------

// NewStoreCommand creates a new Store command
func NewStoreCommand(owner, list string) Command {
	return StoreCommand{Owner: owner, List: list}
}

// NewUpdateListCommand creates a new UpdateList command
func NewUpdateListCommand(owner, list string) Command {
	return UpdateListCommand{Owner: owner, List: list}
}

// NewGetCommand creates a new Get command
func NewGetCommand(owner string) Command {
	return GetCommand{Owner: owner}
}

// NewCreateOwnerCommand creates a new CreateOwner command
func NewCreateOwnerCommand(owner string) Command {
	return CreateOwnerCommand{Owner: owner}
}

// NewListCatalogCommand creates a command fetching the given catalog
func NewListCatalogCommand(catalog Catalog) Command {
	return ListCatalogCommand{Catalog: catalog}
}

// NewDeleteOwnerCommand creates a new DeleteOwner command
func NewDeleteOwnerCommand(owner string) Command {
	return DeleteOwnerCommand{Owner: owner}
}

// NewCommand builds a command from its discriminant and payload.
// Fields that the variant does not carry are ignored.
// It is used by the codecs after the discriminant has been read.
func NewCommand(kind CommandKind, owner, list string) (Command, error) {
	switch kind {
	case CmdStore:
		return NewStoreCommand(owner, list), nil
	case CmdUpdateList:
		return NewUpdateListCommand(owner, list), nil
	case CmdGet:
		return NewGetCommand(owner), nil
	case CmdCreateOwner:
		return NewCreateOwnerCommand(owner), nil
	case CmdListCatalogA:
		return NewListCatalogCommand(CatalogFruits), nil
	case CmdListCatalogB:
		return NewListCatalogCommand(CatalogSuppliers), nil
	case CmdDeleteOwner:
		return NewDeleteOwnerCommand(owner), nil
	default:
		return nil, fmt.Errorf("unknown command kind %d", kind)
	}
}

// Fields returns the owner and list payload of a command.
// Variants without these fields return empty strings.
func Fields(cmd Command) (owner, list string) {
	switch c := cmd.(type) {
	case StoreCommand:
		return c.Owner, c.List
	case UpdateListCommand:
		return c.Owner, c.List
	case GetCommand:
		return c.Owner, ""
	case CreateOwnerCommand:
		return c.Owner, ""
	case DeleteOwnerCommand:
		return c.Owner, ""
	default:
		return "", ""
	}
}

// --------------------------------------------------------------------------
// Command Kind Definition
// --------------------------------------------------------------------------

// CommandKind is the discriminant of a Command. The numeric values are the
// variant indices used on the wire and must not be reordered.
type CommandKind uint32

const (
	CmdStore        CommandKind = iota // Persist a new owned list
	CmdUpdateList                      // Overwrite an existing owned list
	CmdGet                             // Fetch the list of an owner
	CmdCreateOwner                     // Register a new owner
	CmdListCatalogA                    // Fetch the fruits catalog
	CmdListCatalogB                    // Fetch the suppliers catalog
	CmdDeleteOwner                     // Remove an owner and its list
)

// String returns the string representation of a CommandKind.
func (k CommandKind) String() string {
	switch k {
	case CmdStore:
		return "store"
	case CmdUpdateList:
		return "updateList"
	case CmdGet:
		return "get"
	case CmdCreateOwner:
		return "createOwner"
	case CmdListCatalogA:
		return "listCatalogA"
	case CmdListCatalogB:
		return "listCatalogB"
	case CmdDeleteOwner:
		return "deleteOwner"
	default:
		return "unknown"
	}
}

// ParseCommandKind is the inverse of CommandKind.String
func ParseCommandKind(s string) (CommandKind, error) {
	for k := CmdStore; k <= CmdDeleteOwner; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown command kind: %s", s)
}

// MarshalJSON implements the json.Marshaller interface for CommandKind.
func (k CommandKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for CommandKind.
func (k *CommandKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCommandKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// --------------------------------------------------------------------------
// Catalogs
// --------------------------------------------------------------------------

// Catalog identifies one of the read-only reference lists served by the server
type Catalog uint8

const (
	CatalogFruits Catalog = iota
	CatalogSuppliers
)

func (c Catalog) String() string {
	switch c {
	case CatalogFruits:
		return "fruits"
	case CatalogSuppliers:
		return "suppliers"
	default:
		return "unknown"
	}
}

// ParseCatalog converts a catalog name ("fruits", "suppliers", "a", "b") to a Catalog
func ParseCatalog(s string) (Catalog, error) {
	switch s {
	case "fruits", "a", "A":
		return CatalogFruits, nil
	case "suppliers", "b", "B":
		return CatalogSuppliers, nil
	default:
		return 0, fmt.Errorf("unknown catalog %q (expected fruits or suppliers)", s)
	}
}

// DefaultCatalogs returns the catalogs a fresh server is seeded with
func DefaultCatalogs() map[Catalog][]string {
	return map[Catalog][]string{
		CatalogFruits:    {"Apple", "Orange", "Mango", "Pineapple"},
		CatalogSuppliers: {"John Doe", "Jane Doe", "Doe Senior", "Doe Junior"},
	}
}

// --------------------------------------------------------------------------
// Response Definition
// --------------------------------------------------------------------------

// ResponseKind tells the codec which payload shape a response has
type ResponseKind uint8

const (
	RespText     ResponseKind = iota // plain string (confirmations and errors)
	RespOptional                     // optional string (Get)
	RespStrings                      // list of strings (catalogs)
)

// Response is the result of executing a command. Exactly one payload field is
// meaningful, selected by Kind.
type Response struct {
	Kind     ResponseKind
	Text     string
	Optional *string
	Items    []string
}

// NewTextResponse creates a plain string response
func NewTextResponse(text string) Response {
	return Response{Kind: RespText, Text: text}
}

// NewOptionalResponse creates an optional string response
func NewOptionalResponse(value *string) Response {
	return Response{Kind: RespOptional, Optional: value}
}

// NewStringsResponse creates a string list response
func NewStringsResponse(items []string) Response {
	if items == nil {
		items = []string{}
	}
	return Response{Kind: RespStrings, Items: items}
}

// NewErrorResponse flattens an error into a plain string response
func NewErrorResponse(err error) Response {
	return NewTextResponse(ErrorText(err))
}

// --------------------------------------------------------------------------
// Wire Constants
// --------------------------------------------------------------------------

const (
	// RespInserted confirms a Store command
	RespInserted = "INSERTED"
	// RespUpdated confirms an UpdateList command
	RespUpdated = "UPDATED_TODO"
	// RespDeleted confirms a DeleteOwner command
	RespDeleted = "DELETED_USER"
	// RespOwnerNotFound is the Get sentinel for an unknown owner
	RespOwnerNotFound = "USER_NOT_FOUND"
)

// CreatedOwnerText returns the confirmation sent for a CreateOwner command
func CreatedOwnerText(owner string) string {
	return fmt.Sprintf("CREATED_USER `%s`", owner)
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
