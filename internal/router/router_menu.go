// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/go-arcade/arcade-menu/internal/gateway"
	"github.com/go-arcade/arcade-menu/internal/model"
	"github.com/go-arcade/arcade-menu/internal/store"
	"github.com/go-arcade/arcade-menu/internal/tree"
	"github.com/go-arcade/arcade-menu/pkg/http"
	"github.com/go-arcade/arcade-menu/pkg/log"
	"github.com/go-arcade/arcade-menu/pkg/safe"
)

type idReq struct {
	ID string `json:"id"`
}

type loadReq struct {
	MenuID string `json:"menuId"`
}

type expandReq struct {
	IDs []string `json:"ids"`
}

type createChildReq struct {
	ParentID string          `json:"parentId"`
	Item     model.ItemInput `json:"item"`
}

type updateReq struct {
	ID   string          `json:"id"`
	Item model.ItemInput `json:"item"`
}

type reorderReq struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

type itemPath struct {
	ID   string   `json:"id"`
	Path []string `json:"path"`
}

func (rt *Router) menuRouter(r fiber.Router) {
	r.Get("/state", rt.getState)
	r.Get("/menus", rt.listMenus)
	r.Get("/items/:id", rt.getItem)
	r.Get("/items/:id/path", rt.getItemPath)

	intents := r.Group("/intents")
	intents.Post("/load", rt.load)
	intents.Post("/reload", rt.reload)
	intents.Post("/select", rt.selectItem)
	intents.Post("/toggle", rt.toggle)
	intents.Post("/expand-all", rt.expandAll)
	intents.Post("/collapse-all", rt.collapseAll)
	intents.Post("/set-expanded", rt.setExpanded)
	intents.Post("/create", rt.createItem)
	intents.Post("/create-child", rt.createChild)
	intents.Post("/update", rt.updateItem)
	intents.Post("/reorder", rt.reorder)
	intents.Post("/delete", rt.deleteItem)
	intents.Post("/clear-error", rt.clearError)
}

func (rt *Router) getState(c *fiber.Ctx) error {
	return http.WithRepJSON(c, rt.Store.Snapshot())
}

func (rt *Router) listMenus(c *fiber.Ctx) error {
	menus, err := rt.Menus.ListActiveMenus(c.UserContext())
	if err != nil {
		return rt.fail(c, err)
	}
	if menus == nil {
		menus = []model.Menu{}
	}
	return http.WithRepJSON(c, menus)
}

func (rt *Router) getItem(c *fiber.Ctx) error {
	item := tree.FindByID(rt.Store.Snapshot().Items, c.Params("id"))
	if item == nil {
		return http.WithRepErr(c, fiber.StatusNotFound, http.MenuItemNotFound, "")
	}
	return http.WithRepJSON(c, item)
}

func (rt *Router) getItemPath(c *fiber.Ctx) error {
	id := c.Params("id")
	path := tree.PathOf(rt.Store.Snapshot().Items, id)
	if len(path) == 0 {
		return http.WithRepErr(c, fiber.StatusNotFound, http.MenuItemNotFound, "")
	}
	return http.WithRepJSON(c, itemPath{ID: id, Path: path})
}

// load answers once the hierarchy arrived; with ?async=true it returns the
// loading snapshot right away.
func (rt *Router) load(c *fiber.Ctx) error {
	var req loadReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if c.QueryBool("async") {
		st, errCh, err := rt.Store.LoadAsync(context.Background(), req.MenuID)
		if err != nil {
			return rt.fail(c, err)
		}
		menuID := st.MenuID
		safe.Go(func() {
			if err := <-errCh; err != nil {
				log.Warnw("async load failed", "menuId", menuID, "error", err)
			}
		})
		return http.WithRepStatus(c, fiber.StatusAccepted, st)
	}
	if err := rt.Store.Load(c.UserContext(), req.MenuID); err != nil {
		return rt.fail(c, err)
	}
	return rt.getState(c)
}

func (rt *Router) reload(c *fiber.Ctx) error {
	if err := rt.Store.Reload(c.UserContext()); err != nil {
		return rt.fail(c, err)
	}
	return rt.getState(c)
}

// selectItem clears the selection when id is empty.
func (rt *Router) selectItem(c *fiber.Ctx) error {
	var req idReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if req.ID == "" {
		rt.Store.Select(nil)
		return rt.getState(c)
	}
	if !rt.Store.SelectByID(req.ID) {
		return http.WithRepErr(c, fiber.StatusNotFound, http.MenuItemNotFound, "")
	}
	return rt.getState(c)
}

func (rt *Router) toggle(c *fiber.Ctx) error {
	var req idReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if req.ID == "" {
		return http.WithRepErr(c, fiber.StatusBadRequest, http.BadRequest, "id is required")
	}
	rt.Store.ToggleExpand(req.ID)
	return rt.getState(c)
}

func (rt *Router) expandAll(c *fiber.Ctx) error {
	rt.Store.ExpandAll()
	return rt.getState(c)
}

func (rt *Router) collapseAll(c *fiber.Ctx) error {
	rt.Store.CollapseAll()
	return rt.getState(c)
}

func (rt *Router) setExpanded(c *fiber.Ctx) error {
	var req expandReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	rt.Store.SetExpanded(req.IDs)
	return rt.getState(c)
}

func (rt *Router) createItem(c *fiber.Ctx) error {
	var req model.ItemInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if _, err := rt.Store.CreateItem(c.UserContext(), &req); err != nil {
		return rt.fail(c, err)
	}
	return rt.getState(c)
}

func (rt *Router) createChild(c *fiber.Ctx) error {
	var req createChildReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if _, err := rt.Store.CreateChild(c.UserContext(), req.ParentID, &req.Item); err != nil {
		return rt.fail(c, err)
	}
	return rt.getState(c)
}

func (rt *Router) updateItem(c *fiber.Ctx) error {
	var req updateReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if _, err := rt.Store.UpdateItem(c.UserContext(), req.ID, &req.Item); err != nil {
		return rt.fail(c, err)
	}
	return rt.getState(c)
}

func (rt *Router) reorder(c *fiber.Ctx) error {
	var req reorderReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if _, err := rt.Store.Reorder(c.UserContext(), req.ID, req.Order); err != nil {
		return rt.fail(c, err)
	}
	return rt.getState(c)
}

func (rt *Router) deleteItem(c *fiber.Ctx) error {
	var req idReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := rt.Store.DeleteItem(c.UserContext(), req.ID); err != nil {
		return rt.fail(c, err)
	}
	return rt.getState(c)
}

func (rt *Router) clearError(c *fiber.Ctx) error {
	rt.Store.ClearError()
	return rt.getState(c)
}

func badBody(c *fiber.Ctx, err error) error {
	return http.WithRepErr(c, fiber.StatusBadRequest, http.RequestParameterParsingFailed, err.Error())
}

// fail maps store and gateway errors onto the response envelope.
func (rt *Router) fail(c *fiber.Ctx, err error) error {
	var (
		verr *model.ValidationError
		gerr *gateway.Error
	)
	switch {
	case errors.As(err, &verr):
		return http.WithRepErr(c, fiber.StatusBadRequest, http.MenuItemInvalidInput, err.Error())
	case errors.Is(err, store.ErrEmptyMenuID):
		return http.WithRepErr(c, fiber.StatusBadRequest, http.MenuIdIsEmpty, "")
	case errors.Is(err, store.ErrParentNotFound):
		return http.WithRepErr(c, fiber.StatusNotFound, http.MenuItemNotFound, err.Error())
	case errors.Is(err, store.ErrNotParent):
		return http.WithRepErr(c, fiber.StatusBadRequest, http.MenuItemNotParent, err.Error())
	case errors.As(err, &gerr):
		if gerr.Kind == gateway.KindTransport {
			return http.WithRepErr(c, fiber.StatusBadGateway, http.UpstreamUnavailable, gerr.Message)
		}
		return http.WithRepErr(c, fiber.StatusBadGateway, http.UpstreamRejected, gerr.Message)
	default:
		log.WithContext(c.UserContext()).Errorw("menu intent failed", "path", c.Path(), "error", err)
		return http.WithRepErr(c, fiber.StatusInternalServerError, http.InternalError, "")
	}
}
