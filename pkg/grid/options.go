// Package grid describes the tree-data grid configuration the row API is
// built for. The options are plain data served to the front-end; callbacks
// are typed functions kept out of the JSON.
package grid

import (
	"strings"

	"github.com/mholzen/treegrid/pkg/hierarchy"
	"github.com/mholzen/treegrid/pkg/rowmodel"
)

type RowModelType string

const (
	RowModelServerSide RowModelType = "serverSide"
	RowModelClientSide RowModelType = "clientSide"
)

type ColumnDef struct {
	Field         string `json:"field"`
	HeaderName    string `json:"headerName,omitempty"`
	Flex          int    `json:"flex,omitempty"`
	MinWidth      int    `json:"minWidth,omitempty"`
	RowGroup      bool   `json:"rowGroup,omitempty"`
	RowDrag       bool   `json:"rowDrag,omitempty"`
	SuppressCount bool   `json:"suppressCount,omitempty"`
	// Formatter names a value formatter known to the front-end.
	Formatter string `json:"valueFormatter,omitempty"`
}

type RowSelection struct {
	Mode                   string `json:"mode"`
	HeaderCheckbox         bool   `json:"headerCheckbox"`
	GroupSelects           string `json:"groupSelects"`
	CheckboxLocation       string `json:"checkboxLocation"`
	HideDisabledCheckboxes bool   `json:"hideDisabledCheckboxes"`
	SelectAll              string `json:"selectAll"`
}

// Callbacks are the per-row hooks the grid calls. Each has a fixed signature.
type Callbacks struct {
	IsServerSideGroup     func(node *hierarchy.Node) bool
	GetServerSideGroupKey func(node *hierarchy.Node) string
	GetDataPath           func(node *hierarchy.Node) []string
	GetRowID              func(node *hierarchy.Node) string
	IsGroupOpenByDefault  func(level int) bool
	// ShowCheckbox decides whether a row gets a selection checkbox given
	// whether its parent row is selected.
	ShowCheckbox func(parentSelected bool) bool
}

type Options struct {
	RowModelType               RowModelType `json:"rowModelType"`
	TreeData                   bool         `json:"treeData"`
	ColumnDefs                 []ColumnDef  `json:"columnDefs"`
	DefaultColDef              ColumnDef    `json:"defaultColDef"`
	AutoGroupColumnDef         ColumnDef    `json:"autoGroupColumnDef"`
	GroupDefaultExpanded       int          `json:"groupDefaultExpanded"`
	SuppressGroupRowsSticky    bool         `json:"suppressGroupRowsSticky"`
	CacheBlockSize             int          `json:"cacheBlockSize"`
	MaxBlocksInCache           int          `json:"maxBlocksInCache"`
	Pagination                 bool         `json:"pagination"`
	PaginationPageSize         int          `json:"paginationPageSize"`
	PaginationPageSizeSelector []int        `json:"paginationPageSizeSelector"`
	RowSelection               RowSelection `json:"rowSelection"`

	Callbacks Callbacks `json:"-"`
}

func DefaultOptions() *Options {
	return &Options{
		RowModelType: RowModelServerSide,
		TreeData:     true,
		ColumnDefs: []ColumnDef{
			{Field: "id"},
			{Field: "data_path", Formatter: "joinPath"},
			{Field: "hasChildren"},
		},
		DefaultColDef: ColumnDef{Flex: 1},
		AutoGroupColumnDef: ColumnDef{
			Field:         "name",
			HeaderName:    "Assets Name",
			MinWidth:      280,
			RowGroup:      true,
			RowDrag:       true,
			SuppressCount: true,
		},
		GroupDefaultExpanded:       -1,
		SuppressGroupRowsSticky:    true,
		CacheBlockSize:             5,
		MaxBlocksInCache:           5,
		Pagination:                 true,
		PaginationPageSize:         5,
		PaginationPageSizeSelector: []int{5, 10, 25, 50, 100},
		RowSelection: RowSelection{
			Mode:             "multiRow",
			HeaderCheckbox:   true,
			GroupSelects:     "descendants",
			CheckboxLocation: "autoGroupColumn",
			SelectAll:        "currentPage",
		},
		Callbacks: DefaultCallbacks(),
	}
}

func DefaultCallbacks() Callbacks {
	return Callbacks{
		IsServerSideGroup:     rowmodel.IsGroupNode,
		GetServerSideGroupKey: rowmodel.GroupKey,
		GetDataPath:           rowmodel.DataPath,
		GetRowID:              func(node *hierarchy.Node) string { return node.ID },
		IsGroupOpenByDefault:  func(level int) bool { return level >= 0 },
		ShowCheckbox:          func(parentSelected bool) bool { return !parentSelected },
	}
}

// FirstPage is the request the grid sends for its first root block.
func (o *Options) FirstPage() rowmodel.Request {
	return rowmodel.Request{StartIndex: 0, EndIndex: o.CacheBlockSize}
}

// DataPathFormatter renders a path the way the data_path column shows it.
func DataPathFormatter(path []string) string {
	return strings.Join(path, "/")
}
