package tools

import (
	"context"
	"fmt"

	"github.com/peopled/peopled/internal/schema"
	"github.com/peopled/peopled/internal/store"
)

// Canonical names of the built-in people tools.
const (
	ToolCreatePerson ToolName = "create_person"
	ToolGetPerson    ToolName = "get_person_by_id"
	ToolGetAllPeople ToolName = "get_all_people"
	ToolUpdatePerson ToolName = "update_person_by_id"
	ToolDeletePerson ToolName = "delete_person_by_id"
)

// ToolName is the canonical name of a built-in tool.
type ToolName string

// PeopleTools returns the built-in tool set over the given store, in the
// order they are registered at startup.
func PeopleTools(s *store.Store) []schema.Tool {
	return []schema.Tool{
		NewCreatePersonTool(s),
		NewGetPersonTool(s),
		NewListPeopleTool(s),
		NewUpdatePersonTool(s),
		NewDeletePersonTool(s),
	}
}

// argString reads a validated string argument.
func argString(args map[string]any, name string) (string, bool) {
	s, ok := args[name].(string)
	return s, ok
}

// argInt reads a validated integer argument.
func argInt(args map[string]any, name string) (int, bool) {
	n, ok := args[name].(int)
	return n, ok
}

// ---------------------------------------------------------------------------
// CreatePersonTool
// ---------------------------------------------------------------------------

// CreatePersonTool creates a new person record.
type CreatePersonTool struct {
	store *store.Store
}

func NewCreatePersonTool(s *store.Store) *CreatePersonTool { return &CreatePersonTool{store: s} }

func (t *CreatePersonTool) Name() string { return string(ToolCreatePerson) }
func (t *CreatePersonTool) Description() string {
	return "Creates a new person. Requires first_name and last_name; age and email are optional. Email must be unique."
}

func (t *CreatePersonTool) Params() []schema.Param {
	return []schema.Param{
		{Name: "first_name", Type: schema.TypeString, Description: "Person's first name", Required: true},
		{Name: "last_name", Type: schema.TypeString, Description: "Person's last name", Required: true},
		{Name: "age", Type: schema.TypeInteger, Description: "Person's age (0-150)"},
		{Name: "email", Type: schema.TypeString, Description: "Person's email address, unique if provided"},
	}
}

func (t *CreatePersonTool) Execute(_ context.Context, args map[string]any) (any, error) {
	first, _ := argString(args, "first_name")
	last, _ := argString(args, "last_name")

	draft := store.Draft{FirstName: first, LastName: last}
	if age, ok := argInt(args, "age"); ok {
		draft.Age = &age
	}
	if email, ok := argString(args, "email"); ok {
		draft.Email = &email
	}

	person, err := t.store.Create(draft)
	if err != nil {
		return nil, fmt.Errorf("create person: %w", err)
	}
	return person, nil
}

// ---------------------------------------------------------------------------
// GetPersonTool
// ---------------------------------------------------------------------------

// GetPersonTool retrieves one person by id.
type GetPersonTool struct {
	store *store.Store
}

func NewGetPersonTool(s *store.Store) *GetPersonTool { return &GetPersonTool{store: s} }

func (t *GetPersonTool) Name() string { return string(ToolGetPerson) }
func (t *GetPersonTool) Description() string {
	return "Retrieves a specific person by their unique ID."
}

func (t *GetPersonTool) Params() []schema.Param {
	return []schema.Param{
		{Name: "person_id", Type: schema.TypeInteger, Description: "The unique ID of the person to retrieve", Required: true},
	}
}

func (t *GetPersonTool) Execute(_ context.Context, args map[string]any) (any, error) {
	id, _ := argInt(args, "person_id")
	person, err := t.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get person %d: %w", id, err)
	}
	return person, nil
}

// ---------------------------------------------------------------------------
// ListPeopleTool
// ---------------------------------------------------------------------------

// ListPeopleTool lists people with pagination.
type ListPeopleTool struct {
	store *store.Store
}

func NewListPeopleTool(s *store.Store) *ListPeopleTool { return &ListPeopleTool{store: s} }

func (t *ListPeopleTool) Name() string { return string(ToolGetAllPeople) }
func (t *ListPeopleTool) Description() string {
	return "Retrieves a list of people. Supports pagination with 'skip' and 'limit'."
}

func (t *ListPeopleTool) Params() []schema.Param {
	return []schema.Param{
		{Name: "skip", Type: schema.TypeInteger, Description: "Number of records to skip for pagination", Default: 0},
		{Name: "limit", Type: schema.TypeInteger, Description: "Maximum number of records to return", Default: 100},
	}
}

func (t *ListPeopleTool) Execute(_ context.Context, args map[string]any) (any, error) {
	skip, _ := argInt(args, "skip")
	limit, _ := argInt(args, "limit")
	return t.store.List(skip, limit), nil
}

// ---------------------------------------------------------------------------
// UpdatePersonTool
// ---------------------------------------------------------------------------

// UpdatePersonTool applies a partial update to a person.
type UpdatePersonTool struct {
	store *store.Store
}

func NewUpdatePersonTool(s *store.Store) *UpdatePersonTool { return &UpdatePersonTool{store: s} }

func (t *UpdatePersonTool) Name() string { return string(ToolUpdatePerson) }
func (t *UpdatePersonTool) Description() string {
	return "Updates an existing person by their unique ID. Only the provided fields are changed."
}

func (t *UpdatePersonTool) Params() []schema.Param {
	return []schema.Param{
		{Name: "person_id", Type: schema.TypeInteger, Description: "The unique ID of the person to update", Required: true},
		{Name: "first_name", Type: schema.TypeString, Description: "New first name"},
		{Name: "last_name", Type: schema.TypeString, Description: "New last name"},
		{Name: "age", Type: schema.TypeInteger, Description: "New age (0-150)"},
		{Name: "email", Type: schema.TypeString, Description: "New email address, unique"},
	}
}

func (t *UpdatePersonTool) Execute(_ context.Context, args map[string]any) (any, error) {
	id, _ := argInt(args, "person_id")

	var u store.Update
	if v, ok := argString(args, "first_name"); ok {
		u.FirstName = &v
	}
	if v, ok := argString(args, "last_name"); ok {
		u.LastName = &v
	}
	if v, ok := argInt(args, "age"); ok {
		u.Age = &v
	}
	if v, ok := argString(args, "email"); ok {
		u.Email = &v
	}

	person, err := t.store.Update(id, u)
	if err != nil {
		return nil, fmt.Errorf("update person %d: %w", id, err)
	}
	return person, nil
}

// ---------------------------------------------------------------------------
// DeletePersonTool
// ---------------------------------------------------------------------------

// DeletePersonTool removes a person by id.
type DeletePersonTool struct {
	store *store.Store
}

func NewDeletePersonTool(s *store.Store) *DeletePersonTool { return &DeletePersonTool{store: s} }

func (t *DeletePersonTool) Name() string { return string(ToolDeletePerson) }
func (t *DeletePersonTool) Description() string {
	return "Deletes a person by their unique ID."
}

func (t *DeletePersonTool) Params() []schema.Param {
	return []schema.Param{
		{Name: "person_id", Type: schema.TypeInteger, Description: "The unique ID of the person to delete", Required: true},
	}
}

func (t *DeletePersonTool) Execute(_ context.Context, args map[string]any) (any, error) {
	id, _ := argInt(args, "person_id")
	if err := t.store.Delete(id); err != nil {
		return nil, fmt.Errorf("delete person %d: %w", id, err)
	}
	return map[string]any{"deleted": true, "person_id": id}, nil
}
