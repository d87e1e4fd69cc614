// Package tools registers the user-management operations exposed to the
// resolver: pagination, recent listing, single and batch creation, update,
// and delete, all against a store.UserStore.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/conversa-labs/user-agent/pkg/agent"
	"github.com/conversa-labs/user-agent/pkg/store"
)

// maxBatchSize caps one batchCreate call.
const maxBatchSize = 50

// maxPerPage caps the page size a caller can request.
const maxPerPage = 100

// ErrNotFound reports an update against a nonexistent id.
var ErrNotFound = errors.New("User not found")

// ErrBatchTooLarge reports a batch beyond maxBatchSize. Nothing is created.
var ErrBatchTooLarge = errors.New("Maximum batch size is 50 users")

// All returns the full tool set over the given store, in the order they are
// advertised to the model.
func All(s store.UserStore) []agent.Tool {
	return []agent.Tool{
		&ListUsersTool{Store: s},
		&ListLastUsersTool{Store: s},
		&CreateUserTool{Store: s},
		&BatchCreateTool{Store: s},
		&UpdateUserTool{Store: s},
		&DeleteUserTool{Store: s},
	}
}

// ListUsersTool pages through users. The page argument accepts the string
// "last" to jump to the final page.
type ListUsersTool struct {
	Store store.UserStore
}

func (t *ListUsersTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "listUsers",
		Description: `List users with pagination. Set page to "last" to get the last page.`,
		Params: []agent.Param{
			{Name: "page", Default: 1},
			{Name: "perPage", Default: 10},
		},
	}
}

func (t *ListUsersTool) Invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	var in struct {
		PerPage int `mapstructure:"perPage"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	perPage := in.PerPage
	if perPage < 1 {
		perPage = 1
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	page := 1
	if s, ok := args["page"].(string); ok && s == "last" {
		total, err := t.Store.Count(ctx)
		if err != nil {
			return nil, err
		}
		page = (total + perPage - 1) / perPage
		if page < 1 {
			page = 1
		}
	} else if n, ok := toInt(args["page"]); ok && n >= 1 {
		page = n
	}

	pg, err := t.Store.Paginate(ctx, page, perPage)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"current_page": pg.CurrentPage,
		"per_page":     pg.PerPage,
		"total":        pg.Total,
		"last_page":    pg.LastPage,
		"data":         pg.Items,
	}, nil
}

// ListLastUsersTool returns the most recently created users, newest first.
type ListLastUsersTool struct {
	Store store.UserStore
}

func (t *ListLastUsersTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "listLastUsers",
		Description: "List the most recently created users by creation date.",
		Params: []agent.Param{
			{Name: "count", Default: 5},
		},
	}
}

func (t *ListLastUsersTool) Invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	count := 5
	if n, ok := toInt(args["count"]); ok && n >= 0 {
		count = n
	}
	users, err := t.Store.ListRecent(ctx, count)
	if err != nil {
		return nil, err
	}
	return map[string]any{"data": users}, nil
}

// CreateUserTool creates a single user. The password is hashed before it
// reaches the store and never appears in the result.
type CreateUserTool struct {
	Store store.UserStore
}

func (t *CreateUserTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "createUser",
		Description: "Create new user.",
		Params: []agent.Param{
			{Name: "name", Required: true},
			{Name: "email", Required: true},
			{Name: "password", Required: true},
		},
	}
}

func (t *CreateUserTool) Invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	var in struct {
		Name     string `mapstructure:"name"`
		Email    string `mapstructure:"email"`
		Password string `mapstructure:"password"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, errors.New("name, email, and password are required")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	id, err := t.Store.Create(ctx, in.Name, in.Email, hash)
	if err != nil {
		return nil, err
	}
	return map[string]any{"id": id, "name": in.Name, "email": in.Email}, nil
}

// BatchCreateTool creates up to maxBatchSize users from a JSON-encoded
// array. One bad entry records a per-index error and does not abort the
// batch; each insert is independent, so a failure partway through is not
// rolled back.
type BatchCreateTool struct {
	Store store.UserStore
}

func (t *BatchCreateTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "batchCreate",
		Description: "Batch create users - pass users as a JSON string.",
		Params: []agent.Param{
			{Name: "usersJson", Required: true},
		},
	}
}

func (t *BatchCreateTool) Invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	raw, _ := args["usersJson"].(string)

	var entries []struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("Invalid JSON format: %v", err)
	}
	if len(entries) > maxBatchSize {
		return nil, ErrBatchTooLarge
	}

	results := make([]map[string]any, 0, len(entries))
	for i, e := range entries {
		if e.Name == "" || e.Email == "" || e.Password == "" {
			results = append(results, map[string]any{"index": i, "id": nil, "error": "Missing name, email, or password."})
			continue
		}
		hash, err := hashPassword(e.Password)
		if err != nil {
			results = append(results, map[string]any{"index": i, "id": nil, "error": err.Error()})
			continue
		}
		id, err := t.Store.Create(ctx, e.Name, e.Email, hash)
		if err != nil {
			results = append(results, map[string]any{"index": i, "id": nil, "error": err.Error()})
			continue
		}
		results = append(results, map[string]any{"index": i, "id": id})
	}
	return map[string]any{"count": len(results), "results": results}, nil
}

// UpdateUserTool applies the supplied fields to an existing user. Absent or
// empty values leave the field untouched; clearing a field is therefore not
// expressible and needs a product decision before it can be.
type UpdateUserTool struct {
	Store store.UserStore
}

func (t *UpdateUserTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "updateUser",
		Description: "Update user fields by id.",
		Params: []agent.Param{
			{Name: "id", Required: true},
			{Name: "name"},
			{Name: "email"},
			{Name: "password"},
		},
	}
}

func (t *UpdateUserTool) Invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	id, ok := toInt(args["id"])
	if !ok {
		return nil, errors.New("id is required")
	}

	var in struct {
		Name     string `mapstructure:"name"`
		Email    string `mapstructure:"email"`
		Password string `mapstructure:"password"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	u, err := t.Store.Find(ctx, int64(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := t.Store.Save(ctx, u); err != nil {
		return nil, err
	}
	return map[string]any{"id": u.ID, "status": "updated"}, nil
}

// DeleteUserTool removes a user. Deleting a nonexistent id is not an error;
// the result just reports deleted=false.
type DeleteUserTool struct {
	Store store.UserStore
}

func (t *DeleteUserTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "deleteUser",
		Description: "Delete user by id.",
		Params: []agent.Param{
			{Name: "id", Required: true},
		},
	}
}

func (t *DeleteUserTool) Invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	id, ok := toInt(args["id"])
	if !ok {
		return nil, errors.New("id is required")
	}
	deleted, err := t.Store.Delete(ctx, int64(id))
	if err != nil {
		return nil, err
	}
	return map[string]any{"id": int64(id), "deleted": deleted}, nil
}
