package service

import (
	"strings"
	"testing"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
)

func newQuizService(t *testing.T) (*QuizService, *repository.QuizRoleRepository) {
	t.Helper()
	db := newTestDB(t)
	roleRepo := repository.NewQuizRoleRepository(db)
	return NewQuizService(repository.NewQuizRepository(db), roleRepo, testConfig(), nil), roleRepo
}

func sampleCreateReq() CreateQuizReq {
	return CreateQuizReq{
		Title:       "Capitals",
		Description: "Geography basics",
		Questions: []QuestionReq{
			{
				QuestionText: "Capital of France?",
				Options: []model.Option{
					{Text: "Lyon"},
					{Text: "Paris", IsCorrect: true},
				},
				Points:   1,
				Category: "Europe",
			},
			{
				QuestionText: "Capital of Japan?",
				Options: []model.Option{
					{Text: "Tokyo", IsCorrect: true},
					{Text: "Osaka"},
				},
				Points:   3,
				Category: "Asia",
			},
		},
	}
}

func TestCreateQuizDefaults(t *testing.T) {
	svc, roleRepo := newQuizService(t)

	quiz, err := svc.Create(1, sampleCreateReq())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if quiz.TotalPoints != 4 {
		t.Errorf("TotalPoints = %d, want 4", quiz.TotalPoints)
	}
	if !quiz.IsPublished || !quiz.ShowScore {
		t.Error("isPublished and showScore should default to true")
	}
	if quiz.AccessType != model.AccessPublic {
		t.Errorf("AccessType = %q, want public", quiz.AccessType)
	}
	if !strings.HasPrefix(quiz.PublicURL, "/q/") || len(quiz.PublicURL) != len("/q/")+10 {
		t.Errorf("PublicURL = %q, want /q/ plus 10 chars", quiz.PublicURL)
	}
	if !strings.Contains(quiz.EmbedCode, "<iframe") || !strings.Contains(quiz.EmbedCode, quiz.PublicURL) {
		t.Errorf("EmbedCode = %q, want iframe embedding the public link", quiz.EmbedCode)
	}
	for i, q := range quiz.Questions {
		if q.Position != i {
			t.Errorf("question %d has Position %d", i, q.Position)
		}
	}

	role, err := roleRepo.FindOrNil(quiz.ID, 1)
	if err != nil {
		t.Fatalf("find creator role: %v", err)
	}
	if role == nil || role.Role != model.RoleCreator {
		t.Errorf("creator role = %v, want creator", role)
	}
}

func TestCreateQuizHashesPasscode(t *testing.T) {
	svc, _ := newQuizService(t)

	req := sampleCreateReq()
	req.AccessType = string(model.AccessPassword)
	req.Password = "open-sesame"

	quiz, err := svc.Create(1, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if quiz.Password == "open-sesame" {
		t.Error("passcode stored in plaintext")
	}
	if !ParseStoredPasscode(quiz.Password).Verify("open-sesame") {
		t.Error("stored passcode does not verify")
	}
}

func TestUpdateQuizPasscodeLifecycle(t *testing.T) {
	svc, _ := newQuizService(t)

	req := sampleCreateReq()
	req.AccessType = string(model.AccessPassword)
	req.Password = "first"
	quiz, err := svc.Create(1, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stored := quiz.Password

	// Empty submission preserves the stored hash.
	empty := ""
	quiz, err = svc.Update(quiz.ID, UpdateQuizReq{Password: &empty})
	if err != nil {
		t.Fatalf("Update with empty passcode: %v", err)
	}
	if quiz.Password != stored {
		t.Error("empty passcode submission replaced the stored hash")
	}

	// A new passcode is re-hashed.
	second := "second"
	quiz, err = svc.Update(quiz.ID, UpdateQuizReq{Password: &second})
	if err != nil {
		t.Fatalf("Update with new passcode: %v", err)
	}
	if !ParseStoredPasscode(quiz.Password).Verify("second") {
		t.Error("new passcode does not verify")
	}
	if ParseStoredPasscode(quiz.Password).Verify("first") {
		t.Error("old passcode still verifies")
	}

	// Switching away from password clears the stored value.
	public := string(model.AccessPublic)
	quiz, err = svc.Update(quiz.ID, UpdateQuizReq{AccessType: &public})
	if err != nil {
		t.Fatalf("Update to public: %v", err)
	}
	if quiz.Password != "" {
		t.Error("passcode survived switch to public access")
	}
}

func TestUpdateQuizReplaceQuestionsRecomputesTotal(t *testing.T) {
	svc, _ := newQuizService(t)

	quiz, err := svc.Create(1, sampleCreateReq())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	replacement := []QuestionReq{
		{
			QuestionText: "2+2?",
			Options: []model.Option{
				{Text: "3"},
				{Text: "4", IsCorrect: true},
			},
			Points: 7,
		},
	}
	quiz, err = svc.Update(quiz.ID, UpdateQuizReq{Questions: &replacement})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if quiz.TotalPoints != 7 {
		t.Errorf("TotalPoints = %d, want 7", quiz.TotalPoints)
	}

	reloaded, err := svc.Get(quiz.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(reloaded.Questions) != 1 {
		t.Errorf("question count = %d, want 1", len(reloaded.Questions))
	}
	if reloaded.Questions[0].Category != "General" {
		t.Errorf("Category = %q, want default General", reloaded.Questions[0].Category)
	}
}

func TestBuildViewStripsAnswerKeys(t *testing.T) {
	svc, _ := newQuizService(t)
	quiz, err := svc.Create(1, sampleCreateReq())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	taker, err := svc.BuildView(quiz, false, false)
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	for _, q := range taker.Questions {
		for _, opt := range q.Options {
			if opt.IsCorrect != nil {
				t.Fatal("taker view leaks answer keys")
			}
		}
	}

	reviewer, err := svc.BuildView(quiz, true, false)
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	found := false
	for _, q := range reviewer.Questions {
		for _, opt := range q.Options {
			if opt.IsCorrect != nil && *opt.IsCorrect {
				found = true
			}
		}
	}
	if !found {
		t.Error("reviewer view carries no answer keys")
	}
}

func TestBuildViewShufflePreservesOriginalIndex(t *testing.T) {
	svc, _ := newQuizService(t)

	req := sampleCreateReq()
	req.ShuffleQuestions = true
	req.ShuffleOptions = true
	quiz, err := svc.Create(1, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Whatever order the questions are presented in, the set of original
	// indices must stay exactly {0..n-1} so answers score correctly.
	for run := 0; run < 10; run++ {
		view, err := svc.BuildView(quiz, false, true)
		if err != nil {
			t.Fatalf("BuildView: %v", err)
		}
		seen := map[int]bool{}
		for _, q := range view.Questions {
			if seen[q.OriginalIndex] {
				t.Fatalf("duplicate OriginalIndex %d", q.OriginalIndex)
			}
			seen[q.OriginalIndex] = true
		}
		for i := range quiz.Questions {
			if !seen[i] {
				t.Fatalf("OriginalIndex %d missing from shuffled view", i)
			}
		}
	}
}

// Options must come back in canonical order even on quizzes with option
// shuffling enabled: the index a taker submits is graded against the
// stored option order, so a server-side reorder would misscore picks.
func TestBuildViewKeepsOptionsCanonical(t *testing.T) {
	svc, _ := newQuizService(t)

	req := sampleCreateReq()
	req.ShuffleQuestions = true
	req.ShuffleOptions = true
	quiz, err := svc.Create(1, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for run := 0; run < 10; run++ {
		view, err := svc.BuildView(quiz, false, true)
		if err != nil {
			t.Fatalf("BuildView: %v", err)
		}

		var capitals *QuestionView
		for i := range view.Questions {
			if view.Questions[i].OriginalIndex == 0 {
				capitals = &view.Questions[i]
			}
		}
		if capitals == nil {
			t.Fatal("question 0 missing from view")
		}
		if capitals.Options[0].Text != "Lyon" || capitals.Options[1].Text != "Paris" {
			t.Fatalf("options reordered: %q, %q", capitals.Options[0].Text, capitals.Options[1].Text)
		}

		// Picking the displayed index of the correct option must earn
		// the question's points.
		picked := -1
		for i, opt := range capitals.Options {
			if opt.Text == "Paris" {
				picked = i
			}
		}
		result, err := ScoreAnswers(quiz.Questions, quiz.TotalPoints, []model.Answer{
			{QuestionIndex: capitals.OriginalIndex, SelectedOptionIndex: picked},
		})
		if err != nil {
			t.Fatalf("ScoreAnswers: %v", err)
		}
		if result.Score != 1 {
			t.Fatalf("score = %d, want 1 for the correct pick", result.Score)
		}
	}
}
