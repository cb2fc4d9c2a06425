/*
Package persistence defines the core contracts of RecordStore's data layer.

The main interface is Store[T], which provides generic CRUD and query
operations for any identifiable record type T:

	type Store[T Identifiable[T]] interface {
	    Open(ctx context.Context) error
	    IsOpen() bool
	    Close(ctx context.Context) error
	    Create(ctx context.Context, item T) (T, error)
	    GetOneByID(ctx context.Context, id string) (*T, error)
	    GetListByIDs(ctx context.Context, ids []string) ([]T, error)
	    GetPageByFilter(ctx context.Context, filter storagemodels.Filter[T], sort storagemodels.SortParams[T], paging *storagemodels.PagingParams) (storagemodels.DataPage[T], error)
	    ...
	}

Record types opt in through the Identifiable contract:

	type Player struct {
	    ID   string `json:"Id"`
	    Name string `json:"Name"`
	}

	func (p Player) GetID() string           { return p.ID }
	func (p Player) WithID(id string) Player { p.ID = id; return p }

Implementations:
  - memory: the in-memory indexed engine, optionally backed by a Loader and
    Saver pair for snapshot durability
  - file: the memory engine composed with a snapshot file persister
  - ddb: DynamoDB implementation for single-table designs

The package uses Go generics to ensure type safety at compile time while
maintaining flexibility for different storage backends.
*/
package persistence
