package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/data/repos"
	"github.com/shikhonhub/shikhon-backend/internal/data/testutil"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/requestdata"
)

func fourQuestions() []types.Question {
	qs := make([]types.Question, 4)
	for i := range qs {
		qs[i] = types.Question{
			ID:            uuid.NewString(),
			Question:      "prosno",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % 4,
		}
	}
	return qs
}

func TestGradeThreeOfFourIsSeventyFive(t *testing.T) {
	questions := fourQuestions()
	answers := []int{0, 1, 2, 0} // last one wrong (correct is 3)

	score, correct := grade(questions, answers)
	if correct != 3 {
		t.Fatalf("want 3 correct, got %d", correct)
	}
	if score != 75 {
		t.Fatalf("want score 75, got %d", score)
	}
}

func TestGradeRounding(t *testing.T) {
	questions := fourQuestions()[:3]
	answers := []int{0, 1, 9} // 2 of 3 → 66.67 → 67

	score, _ := grade(questions, answers)
	if score != 67 {
		t.Fatalf("want rounded score 67, got %d", score)
	}
}

func TestGradeShortAnswerSheet(t *testing.T) {
	questions := fourQuestions()
	score, correct := grade(questions, []int{0})
	if correct != 1 || score != 25 {
		t.Fatalf("missing answers must count as wrong: correct=%d score=%d", correct, score)
	}
}

func TestPassAtExactThreshold(t *testing.T) {
	questions := fourQuestions()
	score, _ := grade(questions, []int{0, 1, 2, 0})
	passingScore := 75
	if !(score >= passingScore) {
		t.Fatalf("score equal to passing score must pass")
	}
}

func TestValidateQuizRejectsBadShapes(t *testing.T) {
	videoID := uuid.New()
	good := func() QuizInput {
		return QuizInput{VideoID: videoID, Questions: fourQuestions(), PassingScore: 70, Points: 10}
	}

	cases := []struct {
		name   string
		mutate func(*QuizInput)
	}{
		{"no questions", func(in *QuizInput) { in.Questions = nil }},
		{"empty question text", func(in *QuizInput) { in.Questions[0].Question = "" }},
		{"three options", func(in *QuizInput) { in.Questions[1].Options = []string{"a", "b", "c"} }},
		{"empty option", func(in *QuizInput) { in.Questions[2].Options[3] = "" }},
		{"answer out of range", func(in *QuizInput) { in.Questions[0].CorrectAnswer = 4 }},
		{"negative answer", func(in *QuizInput) { in.Questions[0].CorrectAnswer = -1 }},
		{"passing score over 100", func(in *QuizInput) { in.PassingScore = 150 }},
		{"missing video", func(in *QuizInput) { in.VideoID = uuid.Nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := good()
			tc.mutate(&in)
			if err := validateQuiz(in); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	if err := validateQuiz(good()); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

func TestSubmitAwardsOnlyOnFirstPass(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := requestContextFor(uuid.New())

	progressRepo := repos.NewProgressRepo(tx, log)
	profileRepo := repos.NewProfileRepo(tx, log)
	svc := NewQuizService(tx, binding.NewLocalBus(), log, progressRepo, profileRepo)

	rd := requestdata.GetRequestData(ctx)
	if _, err := profileRepo.Upsert(ctx, tx, &types.UserProfile{
		ID: uuid.New(), UserID: rd.UserID, DisplayName: "Student",
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	videoID := uuid.New()
	quiz := &types.Quiz{
		ID:           uuid.New(),
		VideoID:      videoID,
		Questions:    datatypes.NewJSONSlice(fourQuestions()),
		PassingScore: 70,
		Points:       10,
	}
	if err := tx.Create(quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	perfect := []int{0, 1, 2, 3}

	first, err := svc.Submit(ctx, videoID, perfect)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if !first.Passed || !first.FirstPass || first.PointsEarned != 10 {
		t.Fatalf("first pass should award: %+v", first)
	}

	second, err := svc.Submit(ctx, videoID, perfect)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if !second.Passed || second.FirstPass || second.PointsEarned != 0 {
		t.Fatalf("repeat pass must not re-award: %+v", second)
	}

	profile, err := profileRepo.GetByUserID(ctx, tx, rd.UserID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.Points != 10 || profile.CompletedVideos != 1 {
		t.Fatalf("double award detected: points=%d videos=%d", profile.Points, profile.CompletedVideos)
	}

	progress, err := progressRepo.GetByUserAndVideo(ctx, tx, rd.UserID, videoID)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if progress.QuizAttempts != 2 {
		t.Fatalf("attempts must count every submit, got %d", progress.QuizAttempts)
	}
}

func requestContextFor(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: userID,
		Email:  "student@example.com",
	})
}
