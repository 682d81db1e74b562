package grove

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sentinel errors for scene setup. Setup code wraps these with context.
var (
	ErrResourceNotFound  = errors.New("resource not found")
	ErrDuplicateResource = errors.New("duplicate resource")
	ErrDuplicateNode     = errors.New("duplicate node name")
	ErrEmptyName         = errors.New("empty name")
)

// ResourceKind identifies what a Resource holds.
type ResourceKind uint8

const (
	ResourceGeometry ResourceKind = iota // *Mesh
	ResourceMaterial                     // *Material
	ResourceTexture                      // *ebiten.Image
)

var resourceKindNames = [...]string{"geometry", "material", "texture"}

func (k ResourceKind) String() string {
	if int(k) < len(resourceKindNames) {
		return resourceKindNames[k]
	}
	return "unknown"
}

// Material controls how geometry is shaded.
type Material struct {
	// Color tints the geometry (multiplied with the texture when present).
	Color Color
	// Ambient is the light level of faces pointing away from the light.
	Ambient float32
	// Unlit skips lighting entirely (sky planes, screen covers, flames).
	Unlit bool
}

// Resource is an opaque handle to a geometry, material, or texture. Nodes
// hold non-owning references; the ResourceTable owns them.
type Resource struct {
	Name     string
	Kind     ResourceKind
	Mesh     *Mesh
	Material *Material
	Image    *ebiten.Image
}

// ResourceTable owns all resources and resolves them by name.
type ResourceTable struct {
	byName map[string]*Resource
}

// NewResourceTable creates an empty table.
func NewResourceTable() *ResourceTable {
	return &ResourceTable{byName: make(map[string]*Resource)}
}

// Add registers r. Names are unique across all kinds.
func (t *ResourceTable) Add(r *Resource) error {
	if r.Name == "" {
		return fmt.Errorf("add %s resource: %w", r.Kind, ErrEmptyName)
	}
	if _, ok := t.byName[r.Name]; ok {
		return fmt.Errorf("add %s resource %q: %w", r.Kind, r.Name, ErrDuplicateResource)
	}
	t.byName[r.Name] = r
	return nil
}

// AddMesh registers a geometry resource.
func (t *ResourceTable) AddMesh(name string, m *Mesh) (*Resource, error) {
	r := &Resource{Name: name, Kind: ResourceGeometry, Mesh: m}
	return r, t.Add(r)
}

// AddMaterial registers a material resource.
func (t *ResourceTable) AddMaterial(name string, m Material) (*Resource, error) {
	r := &Resource{Name: name, Kind: ResourceMaterial, Material: &m}
	return r, t.Add(r)
}

// AddTexture registers a texture resource.
func (t *ResourceTable) AddTexture(name string, img *ebiten.Image) (*Resource, error) {
	r := &Resource{Name: name, Kind: ResourceTexture, Image: img}
	return r, t.Add(r)
}

// Lookup returns the resource registered under name.
func (t *ResourceTable) Lookup(name string) (*Resource, error) {
	r, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("could not find resource %q: %w", name, ErrResourceNotFound)
	}
	return r, nil
}

// LookupKind is Lookup that also checks the resource kind.
func (t *ResourceTable) LookupKind(name string, kind ResourceKind) (*Resource, error) {
	r, err := t.Lookup(name)
	if err != nil {
		return nil, err
	}
	if r.Kind != kind {
		return nil, fmt.Errorf("resource %q is a %s, want %s: %w", name, r.Kind, kind, ErrResourceNotFound)
	}
	return r, nil
}

// Len returns the number of registered resources.
func (t *ResourceTable) Len() int {
	return len(t.byName)
}

// Instance resolves geometry, material and optional texture (empty name for
// none) and builds a node with build. It is the single place scene setup turns
// resource names into handles.
func (t *ResourceTable) Instance(build func(name string, g, m, tex *Resource) *Node, name, geometry, material, texture string) (*Node, error) {
	g, err := t.LookupKind(geometry, ResourceGeometry)
	if err != nil {
		return nil, fmt.Errorf("instance %q: %w", name, err)
	}
	m, err := t.LookupKind(material, ResourceMaterial)
	if err != nil {
		return nil, fmt.Errorf("instance %q: %w", name, err)
	}
	var tex *Resource
	if texture != "" {
		tex, err = t.LookupKind(texture, ResourceTexture)
		if err != nil {
			return nil, fmt.Errorf("instance %q: %w", name, err)
		}
	}
	return build(name, g, m, tex), nil
}
