package tui

import (
	"context"
	"errors"
	"net/url"

	"github.com/jask/contacts/internal/database/repository"
	"github.com/jask/contacts/internal/router"
	"github.com/jask/contacts/internal/service"
)

// Route ids, also the keys of router loader data.
const (
	RouteSidebar = "sidebar"
	RouteIndex   = "index"
	RouteAbout   = "about"
	RouteContact = "contact"
	RouteEdit    = "edit"
	RouteDestroy = "destroy"
)

// Directory is the contact data the routes read and write.
// *service.ContactService implements it.
type Directory interface {
	List(ctx context.Context, query string) ([]repository.Contact, error)
	Get(ctx context.Context, id string) (repository.Contact, error)
	Create(ctx context.Context) (repository.Contact, error)
	Update(ctx context.Context, id string, u service.ContactUpdate) (repository.Contact, error)
	Delete(ctx context.Context, id string) error
}

// SidebarData is the sidebar loader result. HasQ distinguishes "/?q=" from "/".
type SidebarData struct {
	Contacts []repository.Contact
	Q        string
	HasQ     bool
}

// ContactData is the contact and edit loader result.
type ContactData struct {
	Contact repository.Contact
}

func contactPath(id string) string { return "/contacts/" + url.PathEscape(id) }

// contactLocation is the unescaped location of a contact page; sub is "" or a
// child segment such as "/edit".
func contactLocation(id, sub string) router.Location {
	return router.Location{Path: "/contacts/" + id + sub}
}

// Routes binds dir to the route tree:
//
//	/                             sidebar layout; POST creates a contact
//	/about
//	/contacts/:contactId          POST toggles favorite
//	/contacts/:contactId/edit     POST saves the form
//	/contacts/:contactId/destroy  POST only
func Routes(dir Directory) []router.Route {
	loadContact := func(ctx context.Context, req router.Request) (any, error) {
		c, err := dir.Get(ctx, req.Params["contactId"])
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return nil, router.NotFound("Contact %q not found", req.Params["contactId"])
			}
			return nil, err
		}
		return ContactData{Contact: c}, nil
	}

	return []router.Route{{
		ID:   RouteSidebar,
		Path: "/",
		// Search is a GET form, so it only ever reaches this loader.
		Loader: func(ctx context.Context, req router.Request) (any, error) {
			q, has := req.Location.Param("q")
			contacts, err := dir.List(ctx, q)
			if err != nil {
				return nil, err
			}
			return SidebarData{Contacts: contacts, Q: q, HasQ: has}, nil
		},
		Action: func(ctx context.Context, req router.Request) (any, error) {
			c, err := dir.Create(ctx)
			if err != nil {
				return nil, err
			}
			return router.RedirectTo(contactPath(c.ID) + "/edit"), nil
		},
		Children: []router.Route{
			{ID: RouteIndex, Index: true},
			{ID: RouteAbout, Path: "about"},
			{
				ID:     RouteContact,
				Path:   "contacts/:contactId",
				Loader: loadContact,
				Action: func(ctx context.Context, req router.Request) (any, error) {
					fav := req.Form.Get("favorite") == "true"
					c, err := dir.Update(ctx, req.Params["contactId"], service.ContactUpdate{Favorite: &fav})
					if err != nil {
						return nil, err
					}
					return ContactData{Contact: c}, nil
				},
			},
			{
				ID:     RouteEdit,
				Path:   "contacts/:contactId/edit",
				Loader: loadContact,
				Action: func(ctx context.Context, req router.Request) (any, error) {
					id := req.Params["contactId"]
					if _, err := dir.Update(ctx, id, formUpdate(req.Form)); err != nil {
						return nil, err
					}
					return router.RedirectTo(contactPath(id)), nil
				},
			},
			{
				ID:   RouteDestroy,
				Path: "contacts/:contactId/destroy",
				// No confirmation and no recovery: failures go to the error boundary.
				Action: func(ctx context.Context, req router.Request) (any, error) {
					if err := dir.Delete(ctx, req.Params["contactId"]); err != nil {
						return nil, err
					}
					return router.RedirectTo("/"), nil
				},
			},
		},
	}}
}

func formUpdate(form url.Values) service.ContactUpdate {
	field := func(name string) *string {
		if _, ok := form[name]; !ok {
			return nil
		}
		v := form.Get(name)
		return &v
	}
	return service.ContactUpdate{
		First:   field("first"),
		Last:    field("last"),
		Avatar:  field("avatar"),
		Twitter: field("twitter"),
		Notes:   field("notes"),
	}
}
