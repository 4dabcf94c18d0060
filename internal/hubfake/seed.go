package hubfake

import (
	"time"

	"github.com/ohare93/readhub/internal/hub"
)

func (s *Server) seed() {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	papers := []hub.Paper{
		{
			ID:         "1706.03762",
			Title:      "Attention Is All You Need",
			Authors:    []string{"Ashish Vaswani", "Noam Shazeer", "Niki Parmar"},
			Abstract:   "We propose a new simple network architecture, the Transformer, based solely on attention mechanisms. Experiments on two machine translation tasks show these models to be superior in quality.",
			Categories: []string{"cs.CL", "cs.LG"},
			Published:  day(2017, time.June, 12),
			PDFURL:     "https://arxiv.org/pdf/1706.03762",
			LikeCount:  10,
		},
		{
			ID:         "2006.11239",
			Title:      "Denoising Diffusion Probabilistic Models",
			Authors:    []string{"Jonathan Ho", "Ajay Jain", "Pieter Abbeel"},
			Abstract:   "We present high quality image synthesis results using diffusion probabilistic models. Our best results are obtained by training on a weighted variational bound.",
			Categories: []string{"cs.LG", "stat.ML"},
			Published:  day(2020, time.June, 19),
			PDFURL:     "https://arxiv.org/pdf/2006.11239",
			LikeCount:  5,
			Liked:      true,
		},
		{
			ID:         "1810.04805",
			Title:      "BERT: Pre-training of Deep Bidirectional Transformers for Language Understanding",
			Authors:    []string{"Jacob Devlin", "Ming-Wei Chang", "Kenton Lee", "Kristina Toutanova"},
			Abstract:   "We introduce a new language representation model called BERT. BERT is designed to pre-train deep bidirectional representations from unlabeled text.",
			Categories: []string{"cs.CL"},
			Published:  day(2018, time.October, 11),
			PDFURL:     "https://arxiv.org/pdf/1810.04805",
			LikeCount:  0,
		},
		{
			ID:         "1512.03385",
			Title:      "Deep Residual Learning for Image Recognition",
			Authors:    []string{"Kaiming He", "Xiangyu Zhang", "Shaoqing Ren", "Jian Sun"},
			Abstract:   "Deeper neural networks are more difficult to train. We present a residual learning framework to ease the training of networks that are substantially deeper than those used previously.",
			Categories: []string{"cs.CV"},
			Published:  day(2015, time.December, 10),
			PDFURL:     "https://arxiv.org/pdf/1512.03385",
			LikeCount:  3,
		},
	}
	for _, p := range papers {
		s.paperOrder = append(s.paperOrder, p.ID)
		cp := p
		s.papers[p.ID] = &cp
	}

	articles := []hub.Article{
		{
			ID:        "a-reading-transformers",
			Title:     "How I read the Transformer paper",
			Author:    "mira",
			Body:      "Start with the figure, then the attention equation.\n\nSkip the training details on a first pass.",
			Tags:      []string{"nlp", "reading"},
			LikeCount: 7,
			CreatedAt: day(2024, time.February, 2),
			UpdatedAt: day(2024, time.February, 3),
		},
		{
			ID:         "a-diffusion-intuition",
			Title:      "Diffusion models without the math",
			Author:     "tomas",
			Body:       "Noise goes in, a denoiser learns to walk it back.",
			Tags:       []string{"vision", "generative"},
			LikeCount:  2,
			Liked:      true,
			Bookmarked: true,
			CreatedAt:  day(2024, time.May, 14),
			UpdatedAt:  day(2024, time.May, 14),
		},
	}
	for _, a := range articles {
		s.articleIDs = append(s.articleIDs, a.ID)
		cp := a
		s.articles[a.ID] = &cp
		if a.Bookmarked {
			s.bookmarks[entityKey{kind: hub.KindArticle, id: a.ID}] = a.CreatedAt
		}
	}
}
