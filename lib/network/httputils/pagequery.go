package httputils

import (
	"net/http"
	"strconv"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
)

const DefaultMaxLimit uint64 = 100

// PageQuery parses `cursor`, `reverse` and `limit` query parameters.
type PageQuery struct {
	request *http.Request
	cursor  []byte
	reverse bool
	limit   uint64
}

func NewPageQuery(r *http.Request) (*PageQuery, error) {
	p := &PageQuery{
		request: r,
		limit:   DefaultMaxLimit,
	}
	if err := p.parseRequest(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *PageQuery) Limit() uint64 {
	return p.limit
}

func (p *PageQuery) Reverse() bool {
	return p.reverse
}

func (p *PageQuery) Cursor() []byte {
	return p.cursor
}

func (p *PageQuery) SelfLink() string {
	return p.request.URL.String()
}

func (p *PageQuery) ListOptions() storage.ListOptions {
	return storage.NewDefaultListOptions(p.reverse, p.cursor, p.limit)
}

func (p *PageQuery) parseRequest() error {
	q := p.request.URL.Query()

	if c := q.Get("cursor"); c != "" {
		p.cursor = []byte(c)
	}

	if r := q.Get("reverse"); r != "" {
		reverse, err := strconv.ParseBool(r)
		if err != nil {
			return errors.BadRequestParameter.Clone().SetData("parameter", "reverse")
		}
		p.reverse = reverse
	}

	if l := q.Get("limit"); l != "" {
		limit, err := strconv.ParseUint(l, 10, 64)
		if err != nil || limit == 0 || limit > DefaultMaxLimit {
			return errors.BadRequestParameter.Clone().SetData("parameter", "limit")
		}
		p.limit = limit
	}

	return nil
}
