package feed

import "feedserver/models"

// PageSize is the number of posts on every feed page
const PageSize = 10

type Page struct {
	Number     int           `json:"page"`
	Size       int           `json:"page_size"`
	TotalItems int64         `json:"total"`
	TotalPages int           `json:"pages"`
	Items      []models.Post `json:"items"`
}

func newPage(number, size int, total int64, items []models.Post) Page {
	if items == nil {
		items = []models.Post{}
	}
	return Page{
		Number:     number,
		Size:       size,
		TotalItems: total,
		TotalPages: int(pageCount(total, size)),
		Items:      items,
	}
}

func (p *Page) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

// normalize clamps page number and size to valid values. Pages are 1-indexed
func normalize(number, size int) (int, int) {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = PageSize
	}
	return number, size
}

func pageCount(total int64, size int) int64 {
	pages := total / int64(size)
	if total%int64(size) != 0 {
		pages++
	}
	return pages
}
