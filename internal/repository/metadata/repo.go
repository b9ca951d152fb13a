// Package metadata persists the dynamic metadata vocabulary: types, their
// option sets, and the assignments binding options to catalog entries.
// Types and options are stored as hashes with membership sets alongside, so
// the registry can be loaded in two round trips at request time.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bayanapps/dalil/internal/domain"
	"github.com/bayanapps/dalil/internal/domain/metadata"
)

// store is the consumer interface for metadata persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo stores metadata types, options and entry assignments.
type Repo struct {
	store store
}

func New(s store) *Repo {
	return &Repo{store: s}
}

const (
	fieldLabelEN     = "label_en"
	fieldLabelAR     = "label_ar"
	fieldMultiValued = "multi_valued"
	fieldActive      = "active"
	fieldSortOrder   = "sort_order"
	fieldColor       = "color"
	fieldIcon        = "icon"
)

func typeKey(name string) string     { return domain.KeyPrefix + "md:type:" + name }
func optionKey(t, v string) string   { return domain.KeyPrefix + "md:opt:" + t + ":" + v }
func typeSetKey() string             { return domain.KeyPrefix + "md:types" }
func optionSetKey(t string) string   { return domain.KeyPrefix + "md:opts:" + t }
func assignSetKey(t, v string) string {
	return domain.KeyPrefix + "md:assign:" + t + ":" + v
}
func entryKey(id string) string { return domain.KeyPrefix + "entry:" + id }

// SaveType upserts a metadata type definition. The type name is normalized to
// lowercase; it becomes part of index field names and filter keys, so it must
// be a valid identifier.
func (r *Repo) SaveType(ctx context.Context, t metadata.Type) error {
	t.Name = strings.ToLower(strings.TrimSpace(t.Name))
	if err := validateName(t.Name); err != nil {
		return err
	}
	fields := map[string]string{
		fieldLabelEN:     t.LabelEN,
		fieldLabelAR:     t.LabelAR,
		fieldMultiValued: boolField(t.MultiValued),
		fieldActive:      boolField(t.Active),
		fieldSortOrder:   strconv.Itoa(t.SortOrder),
	}
	if err := r.store.HSet(ctx, typeKey(t.Name), fields); err != nil {
		return fmt.Errorf("save metadata type %q: %w", t.Name, err)
	}
	if err := r.store.SAdd(ctx, typeSetKey(), t.Name); err != nil {
		return fmt.Errorf("register metadata type %q: %w", t.Name, err)
	}
	return nil
}

// SaveOption upserts an option under an existing type.
func (r *Repo) SaveOption(ctx context.Context, o metadata.Option) error {
	o.TypeName = strings.ToLower(strings.TrimSpace(o.TypeName))
	o.Value = strings.ToLower(strings.TrimSpace(o.Value))
	if err := validateName(o.TypeName); err != nil {
		return err
	}
	if o.Value == "" {
		return errors.New("metadata option value is required")
	}
	ok, err := r.store.Exists(ctx, typeKey(o.TypeName))
	if err != nil {
		return fmt.Errorf("check metadata type %q: %w", o.TypeName, err)
	}
	if !ok {
		return fmt.Errorf("metadata type %q: %w", o.TypeName, domain.ErrNotFound)
	}
	fields := map[string]string{
		fieldLabelEN:   o.LabelEN,
		fieldLabelAR:   o.LabelAR,
		fieldActive:    boolField(o.Active),
		fieldSortOrder: strconv.Itoa(o.SortOrder),
		fieldColor:     o.Color,
		fieldIcon:      o.Icon,
	}
	if err := r.store.HSet(ctx, optionKey(o.TypeName, o.Value), fields); err != nil {
		return fmt.Errorf("save metadata option %s=%s: %w", o.TypeName, o.Value, err)
	}
	if err := r.store.SAdd(ctx, optionSetKey(o.TypeName), o.Value); err != nil {
		return fmt.Errorf("register metadata option %s=%s: %w", o.TypeName, o.Value, err)
	}
	return nil
}

// LoadRegistry reads every type and option and builds the active-only
// registry used by search and composition. Missing hashes behind stale set
// members are skipped.
func (r *Repo) LoadRegistry(ctx context.Context) (metadata.Registry, error) {
	names, err := r.store.SMembers(ctx, typeSetKey())
	if err != nil {
		return metadata.Registry{}, fmt.Errorf("list metadata types: %w", err)
	}
	sort.Strings(names)

	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = typeKey(n)
	}
	typeHashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return metadata.Registry{}, fmt.Errorf("load metadata types: %w", err)
	}

	var types []metadata.Type
	var options []metadata.Option
	for i, name := range names {
		fields := typeHashes[i]
		if len(fields) == 0 {
			continue
		}
		types = append(types, typeFromFields(name, fields))

		values, err := r.store.SMembers(ctx, optionSetKey(name))
		if err != nil {
			return metadata.Registry{}, fmt.Errorf("list options for %q: %w", name, err)
		}
		sort.Strings(values)
		optKeys := make([]string, len(values))
		for j, v := range values {
			optKeys[j] = optionKey(name, v)
		}
		optHashes, err := r.store.HGetAllMulti(ctx, optKeys)
		if err != nil {
			return metadata.Registry{}, fmt.Errorf("load options for %q: %w", name, err)
		}
		for j, v := range values {
			if len(optHashes[j]) == 0 {
				continue
			}
			options = append(options, optionFromFields(name, v, optHashes[j]))
		}
	}

	return metadata.NewRegistry(types, options), nil
}

// Assign binds an option value to an entry. Assigning a value the entry
// already carries is a no-op, so retries and double submissions are safe.
// On a single-valued type the new value replaces the current one. The
// option must exist in the vocabulary; free-form values are rejected.
func (r *Repo) Assign(ctx context.Context, entryID, typeName, value string) error {
	typeName = strings.ToLower(strings.TrimSpace(typeName))
	value = strings.ToLower(strings.TrimSpace(value))
	if err := r.checkAssignment(ctx, entryID, typeName, value); err != nil {
		return err
	}

	tf, err := r.store.HGetAll(ctx, typeKey(typeName))
	if err != nil {
		return fmt.Errorf("read metadata type %q: %w", typeName, err)
	}

	field := metadata.FieldName(typeName)
	current, err := r.entryFieldValues(ctx, entryID, field)
	if err != nil {
		return err
	}
	for _, v := range current {
		if v == value {
			return nil
		}
	}

	var replaced []string
	if tf[fieldMultiValued] != "1" {
		replaced = current
		current = nil
	}
	current = append(current, value)
	sort.Strings(current)

	fields := map[string]string{field: strings.Join(current, ",")}
	if err := r.store.HSet(ctx, entryKey(entryID), fields); err != nil {
		return fmt.Errorf("assign %s=%s to entry %s: %w", typeName, value, entryID, err)
	}
	for _, old := range replaced {
		if err := r.store.SRem(ctx, assignSetKey(typeName, old), entryID); err != nil {
			return fmt.Errorf("unindex replaced assignment %s=%s: %w", typeName, old, err)
		}
	}
	if err := r.store.SAdd(ctx, assignSetKey(typeName, value), entryID); err != nil {
		return fmt.Errorf("index assignment %s=%s: %w", typeName, value, err)
	}
	return nil
}

// Unassign removes an option value from an entry. Removing a value the entry
// does not carry is a no-op.
func (r *Repo) Unassign(ctx context.Context, entryID, typeName, value string) error {
	typeName = strings.ToLower(strings.TrimSpace(typeName))
	value = strings.ToLower(strings.TrimSpace(value))
	if err := r.checkAssignment(ctx, entryID, typeName, value); err != nil {
		return err
	}

	field := metadata.FieldName(typeName)
	current, err := r.entryFieldValues(ctx, entryID, field)
	if err != nil {
		return err
	}
	kept := current[:0]
	for _, v := range current {
		if v != value {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(current) {
		return nil
	}

	fields := map[string]string{field: strings.Join(kept, ",")}
	if err := r.store.HSet(ctx, entryKey(entryID), fields); err != nil {
		return fmt.Errorf("unassign %s=%s from entry %s: %w", typeName, value, entryID, err)
	}
	if err := r.store.SRem(ctx, assignSetKey(typeName, value), entryID); err != nil {
		return fmt.Errorf("unindex assignment %s=%s: %w", typeName, value, err)
	}
	return nil
}

// AssignedEntries returns the IDs of entries carrying the given option.
func (r *Repo) AssignedEntries(ctx context.Context, typeName, value string) ([]string, error) {
	typeName = strings.ToLower(strings.TrimSpace(typeName))
	value = strings.ToLower(strings.TrimSpace(value))
	ids, err := r.store.SMembers(ctx, assignSetKey(typeName, value))
	if err != nil {
		return nil, fmt.Errorf("list assignments %s=%s: %w", typeName, value, err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *Repo) checkAssignment(ctx context.Context, entryID, typeName, value string) error {
	if entryID == "" {
		return errors.New("entry id is required")
	}
	if err := validateName(typeName); err != nil {
		return err
	}
	if value == "" {
		return errors.New("metadata option value is required")
	}
	ok, err := r.store.Exists(ctx, entryKey(entryID))
	if err != nil {
		return fmt.Errorf("check entry %s: %w", entryID, err)
	}
	if !ok {
		return domain.ErrEntryNotFound
	}
	ok, err = r.store.Exists(ctx, optionKey(typeName, value))
	if err != nil {
		return fmt.Errorf("check metadata option %s=%s: %w", typeName, value, err)
	}
	if !ok {
		return fmt.Errorf("metadata option %s=%s: %w", typeName, value, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) entryFieldValues(ctx context.Context, entryID, field string) ([]string, error) {
	fields, err := r.store.HGetAll(ctx, entryKey(entryID))
	if err != nil {
		return nil, fmt.Errorf("read entry %s: %w", entryID, err)
	}
	raw := fields[field]
	if raw == "" {
		return nil, nil
	}
	var values []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values, nil
}

func typeFromFields(name string, f map[string]string) metadata.Type {
	order, _ := strconv.Atoi(f[fieldSortOrder])
	return metadata.Type{
		Name:        name,
		LabelEN:     f[fieldLabelEN],
		LabelAR:     f[fieldLabelAR],
		MultiValued: f[fieldMultiValued] == "1",
		Active:      f[fieldActive] == "1",
		SortOrder:   order,
	}
}

func optionFromFields(typeName, value string, f map[string]string) metadata.Option {
	order, _ := strconv.Atoi(f[fieldSortOrder])
	return metadata.Option{
		TypeName:  typeName,
		Value:     value,
		LabelEN:   f[fieldLabelEN],
		LabelAR:   f[fieldLabelAR],
		Active:    f[fieldActive] == "1",
		SortOrder: order,
		Color:     f[fieldColor],
		Icon:      f[fieldIcon],
	}
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func validateName(name string) error {
	if name == "" {
		return errors.New("metadata type name is required")
	}
	// Slug characters only: the name round-trips through index field names
	// where dashes become underscores, so underscores themselves are banned.
	for _, c := range name {
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' {
			continue
		}
		return fmt.Errorf("metadata type name %q contains invalid characters", name)
	}
	return nil
}
