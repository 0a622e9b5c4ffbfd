package shopify

import "testing"

func TestParseNextLink(t *testing.T) {
	tests := []struct {
		name         string
		header       string
		wantURL      string
		wantPageInfo string
	}{
		{
			name:   "empty header",
			header: "",
		},
		{
			name:         "next only",
			header:       `<https://shop.myshopify.com/admin/api/2024-04/orders.json?page_info=abc123&limit=250>; rel="next"`,
			wantURL:      "https://shop.myshopify.com/admin/api/2024-04/orders.json?page_info=abc123&limit=250",
			wantPageInfo: "abc123",
		},
		{
			name:         "previous and next",
			header:       `<https://shop.myshopify.com/admin/api/2024-04/orders.json?page_info=prev9&limit=250>; rel="previous", <https://shop.myshopify.com/admin/api/2024-04/orders.json?page_info=next7&limit=250>; rel="next"`,
			wantURL:      "https://shop.myshopify.com/admin/api/2024-04/orders.json?page_info=next7&limit=250",
			wantPageInfo: "next7",
		},
		{
			name:   "previous only means final page",
			header: `<https://shop.myshopify.com/admin/api/2024-04/orders.json?page_info=prev9&limit=250>; rel="previous"`,
		},
		{
			name:   "malformed entry is skipped",
			header: `https://no-brackets.example.com?page_info=x; rel="next"`,
		},
		{
			name:   "next link without page_info is ignored",
			header: `<https://shop.myshopify.com/admin/api/2024-04/orders.json?limit=250>; rel="next"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotURL, gotPageInfo := parseNextLink(tt.header)
			if gotURL != tt.wantURL {
				t.Errorf("nextURL = %q, want %q", gotURL, tt.wantURL)
			}
			if gotPageInfo != tt.wantPageInfo {
				t.Errorf("pageInfo = %q, want %q", gotPageInfo, tt.wantPageInfo)
			}
		})
	}
}
