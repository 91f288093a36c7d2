package handler

import (
	"courseflow/internal/api/v1/dto"
	"courseflow/internal/course"
	"courseflow/internal/model"
)

func toCourseResponse(c model.Course) dto.CourseResponseDTO {
	actions := []string{}
	for _, a := range course.AvailableActions(c.Status) {
		actions = append(actions, string(a))
	}
	return dto.CourseResponseDTO{
		CourseID:         c.ID,
		CreatorID:        c.CreatorID,
		Title:            c.Title,
		Description:      c.Description,
		CoverURL:         c.CoverURL,
		InstitutionID:    c.InstitutionID,
		PaymentType:      string(c.PaymentType),
		PriceCents:       c.PriceCents,
		Status:           string(c.Status),
		ReviewComment:    c.ReviewComment,
		ReviewerID:       c.ReviewerID,
		SubmittedAt:      c.SubmittedAt,
		ReviewStartedAt:  c.ReviewStartedAt,
		ReviewedAt:       c.ReviewedAt,
		AvailableActions: actions,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func toCourseResponses(courses []model.Course) []dto.CourseResponseDTO {
	out := make([]dto.CourseResponseDTO, 0, len(courses))
	for _, c := range courses {
		out = append(out, toCourseResponse(c))
	}
	return out
}

func toChapterResponse(ch model.Chapter) dto.ChapterResponseDTO {
	return dto.ChapterResponseDTO{
		ChapterID:   ch.ID,
		CourseID:    ch.CourseID,
		Title:       ch.Title,
		Description: ch.Description,
		OrderIndex:  ch.OrderIndex,
		AccessType:  string(ch.AccessType),
		CreatedAt:   ch.CreatedAt,
		UpdatedAt:   ch.UpdatedAt,
	}
}

func toChapterResponses(chapters []model.Chapter) []dto.ChapterResponseDTO {
	out := make([]dto.ChapterResponseDTO, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, toChapterResponse(ch))
	}
	return out
}

func toQuizOptions(o model.QuizOptions) dto.QuizOptionsDTO {
	return dto.QuizOptionsDTO{
		RandomOrder:       o.RandomOrder,
		OrderByDifficulty: o.OrderByDifficulty,
		ShowAnalysis:      o.ShowAnalysis,
	}
}

func fromQuizOptions(o dto.QuizOptionsDTO) model.QuizOptions {
	return model.QuizOptions{
		RandomOrder:       o.RandomOrder,
		OrderByDifficulty: o.OrderByDifficulty,
		ShowAnalysis:      o.ShowAnalysis,
	}
}

func toResource(b model.ResourceBinding) *dto.ResourceDTO {
	switch v := b.(type) {
	case model.MediaBinding:
		id := v.MediaID
		return &dto.ResourceDTO{Kind: string(v.Kind()), MediaID: &id, Role: v.Role}
	case model.QuestionGroupBinding:
		id := v.GroupID
		opts := toQuizOptions(v.Options)
		return &dto.ResourceDTO{Kind: string(v.Kind()), QuestionGroupID: &id, Options: &opts}
	default:
		return nil
	}
}

func toSectionResponse(s model.Section) dto.SectionResponseDTO {
	return dto.SectionResponseDTO{
		SectionID:        s.ID,
		ChapterID:        s.ChapterID,
		Title:            s.Title,
		Description:      s.Description,
		OrderIndex:       s.OrderIndex,
		AccessType:       string(s.AccessType),
		ContentType:      string(s.ContentType),
		EstimatedMinutes: s.EstimatedMinutes,
		Resource:         toResource(s.Binding),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func toSectionResponses(sections []model.Section) []dto.SectionResponseDTO {
	out := make([]dto.SectionResponseDTO, 0, len(sections))
	for _, s := range sections {
		out = append(out, toSectionResponse(s))
	}
	return out
}

func toStructureResponse(s model.CourseStructure) dto.CourseStructureResponseDTO {
	resp := dto.CourseStructureResponseDTO{
		Course:   toCourseResponse(s.Course),
		Chapters: make([]dto.ChapterStructureDTO, 0, len(s.Chapters)),
	}
	for _, cs := range s.Chapters {
		resp.Chapters = append(resp.Chapters, dto.ChapterStructureDTO{
			ChapterResponseDTO: toChapterResponse(cs.Chapter),
			Sections:           toSectionResponses(cs.Sections),
		})
	}
	return resp
}

func toReviewTaskResponses(tasks []model.ReviewTask) []dto.ReviewTaskResponseDTO {
	out := make([]dto.ReviewTaskResponseDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, dto.ReviewTaskResponseDTO{
			ReviewTaskID: t.ID,
			CourseID:     t.CourseID,
			SubmittedAt:  t.SubmittedAt,
			ReviewerID:   t.ReviewerID,
			StartedAt:    t.StartedAt,
			Decision:     string(t.Decision),
			Comment:      t.Comment,
			DecidedAt:    t.DecidedAt,
		})
	}
	return out
}

func toContent(c *model.SectionContent) *dto.ContentDTO {
	if c == nil {
		return nil
	}
	out := &dto.ContentDTO{AccessURL: c.AccessURL, Role: c.Role}
	if c.Media != nil {
		out.Media = &dto.MediaDTO{
			MediaID:         c.Media.ID,
			Kind:            string(c.Media.Kind),
			Title:           c.Media.Title,
			DurationSeconds: c.Media.DurationSeconds,
		}
	}
	if c.QuestionGroup != nil {
		out.QuestionGroup = &dto.QuestionGroupDTO{QuestionGroupID: c.QuestionGroup.ID, Title: c.QuestionGroup.Title}
	}
	for _, item := range c.Items {
		out.Items = append(out.Items, dto.QuestionItemDTO{
			ItemID:     item.ID,
			Difficulty: item.Difficulty,
			Prompt:     item.Prompt,
			Analysis:   item.Analysis,
		})
	}
	if c.Options != nil {
		opts := toQuizOptions(*c.Options)
		out.Options = &opts
	}
	return out
}

func toVisibleStructureResponse(vs model.VisibleStructure) dto.VisibleStructureResponseDTO {
	resp := dto.VisibleStructureResponseDTO{
		Course:   toCourseResponse(vs.Course),
		Chapters: make([]dto.VisibleChapterDTO, 0, len(vs.Chapters)),
	}
	for _, ch := range vs.Chapters {
		vc := dto.VisibleChapterDTO{
			ChapterID:  ch.Chapter.ID,
			Title:      ch.Chapter.Title,
			OrderIndex: ch.Chapter.OrderIndex,
			AccessType: string(ch.Chapter.AccessType),
			Sections:   make([]dto.VisibleSectionDTO, 0, len(ch.Sections)),
		}
		for _, sec := range ch.Sections {
			vc.Sections = append(vc.Sections, dto.VisibleSectionDTO{
				SectionID:          sec.Section.ID,
				Title:              sec.Section.Title,
				Description:        sec.Section.Description,
				OrderIndex:         sec.Section.OrderIndex,
				ContentType:        string(sec.Section.ContentType),
				EstimatedMinutes:   sec.Section.EstimatedMinutes,
				Access:             string(sec.Access),
				Visibility:         string(sec.Visibility),
				ContentUnavailable: sec.ContentUnavailable,
				Content:            toContent(sec.Content),
			})
		}
		resp.Chapters = append(resp.Chapters, vc)
	}
	return resp
}
