package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caliper/internal/model"
	"caliper/internal/scoring"
)

func TestSnapshotRequiresApproval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.reportSvc.Snapshot(ctx, "case_ghost")
	assert.ErrorIs(t, err, ErrCaseNotFound)

	caseID := env.submit(t, []model.Answer{{QuestionID: "DI-1", Raw: 4}})
	_, err = env.assessmentSvc.ScoreCase(ctx, caseID)
	require.NoError(t, err)

	_, err = env.reportSvc.Snapshot(ctx, caseID)
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestSnapshotAppliesOverridesAndBands(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	caseID := env.submit(t, []model.Answer{
		{QuestionID: "DI-1", Raw: 2},
		{QuestionID: "AC-1", Raw: 4},
	})
	_, err := env.assessmentSvc.ScoreCase(ctx, caseID)
	require.NoError(t, err)
	_, err = env.approvalSvc.Approve(ctx, caseID, "rev_abc", map[string]float64{"DI": 4.0}, "")
	require.NoError(t, err)

	snap, err := env.reportSvc.Snapshot(ctx, caseID)
	require.NoError(t, err)

	byCode := make(map[string]model.ReportDimension)
	for _, d := range snap.Dimensions {
		byCode[d.Code] = d
	}

	di := byCode["DI"]
	require.NotNil(t, di.Score)
	assert.Equal(t, 4.0, *di.Score)
	assert.True(t, di.Overridden)
	assert.Equal(t, "Sound", di.Band)

	ac := byCode["AC"]
	assert.False(t, ac.Overridden)
	assert.Equal(t, "Sound", ac.Band)

	// Unanswered dimension stays nil and lands in the distinguished band.
	tr := byCode["TR"]
	assert.Nil(t, tr.Score)
	assert.Equal(t, scoring.BandInsufficientData, tr.Band)

	assert.Equal(t, "rev_abc", snap.ReviewedBy)
	assert.False(t, snap.ApprovedAt.IsZero())
}

type captureRenderer struct {
	snapshot *model.ReportSnapshot
}

func (r *captureRenderer) Render(ctx context.Context, snapshot *model.ReportSnapshot) ([]byte, error) {
	r.snapshot = snapshot
	return []byte("pdf-bytes"), nil
}

type captureMailer struct {
	recipient string
	document  []byte
	fail      bool
}

func (m *captureMailer) Send(ctx context.Context, recipient string, document []byte) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.recipient = recipient
	m.document = document
	return nil
}

func TestDeliverUsesRendererAndMailer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	caseID := env.submit(t, []model.Answer{{QuestionID: "DI-1", Raw: 4}})
	_, err := env.assessmentSvc.ScoreCase(ctx, caseID)
	require.NoError(t, err)
	_, err = env.approvalSvc.Approve(ctx, caseID, "rev_abc", nil, "")
	require.NoError(t, err)

	// Without collaborators delivery is a no-op, not an error.
	require.NoError(t, env.reportSvc.Deliver(ctx, caseID, "respondent@example.com"))

	renderer := &captureRenderer{}
	mailer := &captureMailer{}
	env.reportSvc.SetRenderer(renderer)
	env.reportSvc.SetMailer(mailer)

	require.NoError(t, env.reportSvc.Deliver(ctx, caseID, "respondent@example.com"))
	assert.Equal(t, caseID, renderer.snapshot.CaseID)
	assert.Equal(t, "respondent@example.com", mailer.recipient)
	assert.Equal(t, []byte("pdf-bytes"), mailer.document)

	env.reportSvc.SetMailer(&captureMailer{fail: true})
	assert.Error(t, env.reportSvc.Deliver(ctx, caseID, "respondent@example.com"))
}
