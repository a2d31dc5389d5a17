package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/poiesic/actionbar/core"
)

const (
	appsFile = "apps.json"
	nounsDir = "nouns"
)

// ErrNoApps is returned when a catalog directory has no apps.json.
var ErrNoApps = errors.New("catalog has no apps.json")

type appDoc struct {
	ID      string      `json:"id"`
	Actions []actionDoc `json:"actions"`
}

type actionDoc struct {
	Names         []string `json:"names"`
	Params        []string `json:"params"`
	Caption       string   `json:"caption"`
	Parameterized bool     `json:"parameterized"`
}

// LoadDir loads and validates a catalog from a directory on disk.
func LoadDir(dir string) (*core.Catalog, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// LoadFS loads and validates a catalog rooted at dir within fsys.
func LoadFS(fsys fs.FS, dir string) (*core.Catalog, error) {
	data, err := fs.ReadFile(fsys, path.Join(dir, appsFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoApps
		}
		return nil, err
	}

	apps, err := ParseApps(data)
	if err != nil {
		return nil, err
	}

	catalog := &core.Catalog{
		Apps:  apps,
		Nouns: make(map[core.NounType][]*core.Noun),
	}

	entries, err := fs.ReadDir(fsys, path.Join(dir, nounsDir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}
		t := core.NounType(strings.TrimSuffix(entry.Name(), ".json"))
		data, err := fs.ReadFile(fsys, path.Join(dir, nounsDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		nouns, err := ParseNouns(t, data)
		if err != nil {
			return nil, err
		}
		catalog.Nouns[t] = nouns
	}

	catalog.AssignIDs()
	if err := core.ValidateCatalog(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// ParseApps decodes an apps.json document.
func ParseApps(data []byte) ([]*core.App, error) {
	var docs []appDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", appsFile, err)
	}

	apps := make([]*core.App, 0, len(docs))
	for _, doc := range docs {
		app := &core.App{ID: doc.ID, Actions: make([]*core.Action, 0, len(doc.Actions))}
		for _, ad := range doc.Actions {
			params := make([]core.NounType, len(ad.Params))
			for i, p := range ad.Params {
				params[i] = core.NounType(p)
			}
			app.Actions = append(app.Actions, &core.Action{
				Names:         ad.Names,
				Params:        params,
				CaptionFormat: ad.Caption,
				Parameterized: ad.Parameterized,
			})
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// ParseNouns decodes a noun file of the given type. Known fields map onto
// core.Noun; any other string-valued field is kept as an attribute.
func ParseNouns(t core.NounType, data []byte) ([]*core.Noun, error) {
	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse %s nouns: %w", t, err)
	}

	nouns := make([]*core.Noun, 0, len(docs))
	for _, doc := range docs {
		noun := &core.Noun{Type: t}
		for k, v := range doc {
			s, ok := v.(string)
			if !ok {
				continue
			}
			switch k {
			case "serialized":
				noun.Serialized = s
			case "tel":
				noun.Tel = s
			case "subtitle":
				noun.Subtitle = s
			default:
				if noun.Attributes == nil {
					noun.Attributes = make(map[string]string)
				}
				noun.Attributes[k] = s
			}
		}
		nouns = append(nouns, noun)
	}
	return nouns, nil
}
