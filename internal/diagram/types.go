package diagram

// AttributeType is the SQL-ish type tag a column carries on the canvas.
type AttributeType string

const (
	TypeInt       AttributeType = "INT"
	TypeBigInt    AttributeType = "BIGINT"
	TypeVarchar   AttributeType = "VARCHAR"
	TypeBoolean   AttributeType = "BOOLEAN"
	TypeTimestamp AttributeType = "TIMESTAMP"
	TypeUUID      AttributeType = "UUID"
	TypeText      AttributeType = "TEXT"
	TypeDecimal   AttributeType = "DECIMAL"
	TypeJSON      AttributeType = "JSON"
)

// Column is one attribute of a table. Nothing enforces a single primary key
// per table, or any primary key at all; the editor permits both.
type Column struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Type          AttributeType `json:"type"`
	IsPrimary     bool          `json:"isPrimary"`
	IsNullable    bool          `json:"isNullable"`
	IsForeignKey  bool          `json:"isForeignKey,omitempty"`
	AutoIncrement bool          `json:"autoIncrement,omitempty"`
}

// Comment is immutable once created; the containing list is only ever
// appended to or replaced wholesale.
type Comment struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// Position is the table's placement on the canvas. Render-only.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Table is one diagram node representing a database table.
type Table struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Attributes  []Column  `json:"attributes"`
	Comments    []Comment `json:"comments,omitempty"`
	Position    Position  `json:"position"`
}

// Relationship is a diagram edge. Source and Target should reference table
// ids but nothing enforces it; a dangling endpoint simply fails to render.
type Relationship struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
	Style  string `json:"style,omitempty"`
}

// State is the aggregate persisted and rendered unit: all table nodes and
// relationship edges of one diagram. Node order is render order only.
type State struct {
	Nodes []Table        `json:"nodes"`
	Edges []Relationship `json:"edges"`
}

// NewState returns an empty diagram.
func NewState() State {
	return State{Nodes: []Table{}, Edges: []Relationship{}}
}

// TablePatch is a partial table update. Nil fields are left untouched.
type TablePatch struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Attributes  *[]Column  `json:"attributes,omitempty"`
	Comments    *[]Comment `json:"comments,omitempty"`
	Position    *Position  `json:"position,omitempty"`
}

// ColumnPatch is a partial column update. Nil fields are left untouched.
type ColumnPatch struct {
	Name          *string        `json:"name,omitempty"`
	Type          *AttributeType `json:"type,omitempty"`
	IsPrimary     *bool          `json:"isPrimary,omitempty"`
	IsNullable    *bool          `json:"isNullable,omitempty"`
	IsForeignKey  *bool          `json:"isForeignKey,omitempty"`
	AutoIncrement *bool          `json:"autoIncrement,omitempty"`
}

// RelationshipPatch is a partial relationship update.
type RelationshipPatch struct {
	Source *string `json:"source,omitempty"`
	Target *string `json:"target,omitempty"`
	Label  *string `json:"label,omitempty"`
	Style  *string `json:"style,omitempty"`
}

// RelationshipAttrs carries the optional fields of a new relationship.
type RelationshipAttrs struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label,omitempty"`
	Style string `json:"style,omitempty"`
}
