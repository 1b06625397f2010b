package state

import "errors"

// Failure kinds returned by Store operations. The returned error also wraps
// the transport error, so errors.As still reaches *api.TransportError.
var (
	ErrFetchFailed    = errors.New("fetch items failed")
	ErrFetchOneFailed = errors.New("fetch item failed")
	ErrCreateFailed   = errors.New("create item failed")
	ErrUpdateFailed   = errors.New("update item failed")
	ErrDeleteFailed   = errors.New("delete item failed")
)

// Messages holds the user-facing text recorded in Snapshot.Err for each
// failure kind. The text is fixed per kind and never includes transport
// details.
type Messages struct {
	FetchFailed    string
	FetchOneFailed string
	CreateFailed   string
	UpdateFailed   string
	DeleteFailed   string
}

// EnglishMessages is the default catalog.
var EnglishMessages = Messages{
	FetchFailed:    "Failed to load items",
	FetchOneFailed: "Failed to load item details",
	CreateFailed:   "Failed to create item",
	UpdateFailed:   "Failed to update item",
	DeleteFailed:   "Failed to delete item",
}

// ChineseMessages matches the wording of the web client.
var ChineseMessages = Messages{
	FetchFailed:    "获取数据失败",
	FetchOneFailed: "获取项目详情失败",
	CreateFailed:   "创建失败",
	UpdateFailed:   "更新失败",
	DeleteFailed:   "删除失败",
}

// MessagesFor returns the catalog for a locale tag, defaulting to English.
func MessagesFor(locale string) Messages {
	switch locale {
	case "zh", "zh-CN", "zh_CN":
		return ChineseMessages
	default:
		return EnglishMessages
	}
}

func (m Messages) forKind(kind error) string {
	switch kind {
	case ErrFetchFailed:
		return m.FetchFailed
	case ErrFetchOneFailed:
		return m.FetchOneFailed
	case ErrCreateFailed:
		return m.CreateFailed
	case ErrUpdateFailed:
		return m.UpdateFailed
	case ErrDeleteFailed:
		return m.DeleteFailed
	}
	return kind.Error()
}

// withDefaults fills blank entries from EnglishMessages.
func (m Messages) withDefaults() Messages {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&m.FetchFailed, EnglishMessages.FetchFailed)
	fill(&m.FetchOneFailed, EnglishMessages.FetchOneFailed)
	fill(&m.CreateFailed, EnglishMessages.CreateFailed)
	fill(&m.UpdateFailed, EnglishMessages.UpdateFailed)
	fill(&m.DeleteFailed, EnglishMessages.DeleteFailed)
	return m
}
