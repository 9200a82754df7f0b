package mapping

import (
	"kontent-migrator/internal/element"
)

func articleType() element.ContentType {
	return element.ContentType{
		ID:       "src-type",
		Name:     "Article",
		Codename: "article",
		Elements: []element.Descriptor{
			{ID: "e1", Name: "Title", Codename: "title", Type: element.TypeText},
			{ID: "e2", Name: "Body Copy", Codename: "body", Type: element.TypeRichText},
			{ID: "e3", Name: "Author Bio", Codename: "author_bio", Type: element.TypeText},
			{ID: "e4", Name: "Hero Image", Codename: "hero", Type: element.TypeAsset},
			{
				ID: "e5", Name: "Tags", Codename: "tags", Type: element.TypeTaxonomy,
				Constraints: element.TaxonomyConstraints{GroupID: "g1"},
			},
			{ID: "e6", Name: "Legacy Widget", Codename: "legacy", Type: element.TypeCustom},
		},
	}
}

func blogPostType() element.ContentType {
	return element.ContentType{
		ID:       "dst-type",
		Name:     "Blog post",
		Codename: "blog_post",
		Elements: []element.Descriptor{
			{ID: "t1", Name: "Title", Codename: "title", Type: element.TypeText, IsRequired: true},
			{ID: "t2", Name: "Main Body Copy", Codename: "main_content", Type: element.TypeRichText},
			{ID: "t3", Name: "author bio", Codename: "bio", Type: element.TypeText},
			{ID: "t4", Name: "Image", Codename: "image", Type: element.TypeAsset},
			{
				ID: "t5", Name: "Tags", Codename: "tags", Type: element.TypeTaxonomy,
				Constraints: element.TaxonomyConstraints{GroupID: "g2"},
			},
			{ID: "t6", Name: "Summary", Codename: "summary", Type: element.TypeText, IsRequired: true},
		},
	}
}
