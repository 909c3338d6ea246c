package server

import (
	"context"
	"errors"
	"github.com/ValentinKolb/dTodo/lib/store"
	"github.com/ValentinKolb/dTodo/rpc/common"
)

// NewOwnerStoreAdapter creates the dispatcher that executes commands against an owner store.
//
// Store semantics: an unknown owner is created with the list, an owner created without
// a list (CreateOwner) gets the list, an owner that already has a list is refused
// with common.ErrListExists. UpdateList is the way to overwrite a list.
func NewOwnerStoreAdapter(s store.IOwnerStore) IRPCServerAdapter {
	return &ownerStoreAdapterImpl{store: s}
}

type ownerStoreAdapterImpl struct {
	store store.IOwnerStore
}

func (adapter *ownerStoreAdapterImpl) Handle(ctx context.Context, cmd common.Command) (common.Response, error) {
	// Check for nil store or command
	if adapter.store == nil {
		return common.NewErrorResponse(errors.New("handler: store is nil")), errors.New("handler: store is nil")
	}
	if cmd == nil {
		return common.NewErrorResponse(common.ErrInvalidCommand), common.ErrInvalidCommand
	}

	resp, err := cmd.Accept(&commandHandler{ctx: ctx, store: adapter.store})
	if err != nil {
		// flatten to text at the wire boundary
		return common.NewErrorResponse(err), err
	}
	return resp, nil
}

// commandHandler implements common.CommandHandler for a single request
type commandHandler struct {
	ctx   context.Context
	store store.IOwnerStore
}

func (h *commandHandler) HandleStore(cmd common.StoreCommand) (common.Response, error) {
	list, found, err := h.store.FindOwner(h.ctx, cmd.Owner)
	if err != nil {
		return common.Response{}, err
	}

	switch {
	case !found:
		err = h.store.InsertOwner(h.ctx, cmd.Owner, &cmd.List)
		if errors.Is(err, common.ErrOwnerExists) {
			// created concurrently
			err = common.ErrListExists
		}
	case list == nil:
		err = h.store.UpdateOwner(h.ctx, cmd.Owner, cmd.List)
	default:
		err = common.ErrListExists
	}
	if err != nil {
		return common.Response{}, err
	}
	return common.NewTextResponse(common.RespInserted), nil
}

func (h *commandHandler) HandleUpdateList(cmd common.UpdateListCommand) (common.Response, error) {
	if err := h.store.UpdateOwner(h.ctx, cmd.Owner, cmd.List); err != nil {
		return common.Response{}, err
	}
	return common.NewTextResponse(common.RespUpdated), nil
}

func (h *commandHandler) HandleGet(cmd common.GetCommand) (common.Response, error) {
	list, found, err := h.store.FindOwner(h.ctx, cmd.Owner)
	if err != nil {
		return common.Response{}, err
	}
	if !found {
		// the sentinel is data, not an error
		return common.NewOptionalResponse(common.StringPtr(common.RespOwnerNotFound)), nil
	}
	return common.NewOptionalResponse(list), nil
}

func (h *commandHandler) HandleCreateOwner(cmd common.CreateOwnerCommand) (common.Response, error) {
	if err := h.store.InsertOwner(h.ctx, cmd.Owner, nil); err != nil {
		return common.Response{}, err
	}
	return common.NewTextResponse(common.CreatedOwnerText(cmd.Owner)), nil
}

func (h *commandHandler) HandleListCatalog(cmd common.ListCatalogCommand) (common.Response, error) {
	names, err := h.store.ListCatalog(h.ctx, cmd.Catalog)
	if err != nil {
		return common.Response{}, err
	}
	return common.NewStringsResponse(names), nil
}

func (h *commandHandler) HandleDeleteOwner(cmd common.DeleteOwnerCommand) (common.Response, error) {
	if err := h.store.DeleteOwner(h.ctx, cmd.Owner); err != nil {
		return common.Response{}, err
	}
	return common.NewTextResponse(common.RespDeleted), nil
}
