package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"risk-registry/internal/apperr"
	"risk-registry/internal/metrics"
	"risk-registry/internal/models"
	"risk-registry/internal/repos"
	"risk-registry/internal/testutil"
	"risk-registry/internal/validation"
)

type fixture struct {
	db        *gorm.DB
	metrics   *metrics.Metrics
	riskTypes *RiskTypeService
	risks     *RiskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	m := metrics.New()

	rtRepo := repos.NewRiskTypeRepo(db, log)
	return &fixture{
		db:        db,
		metrics:   m,
		riskTypes: NewRiskTypeService(db, rtRepo, repos.NewOptionValueRepo(db, log), log, m),
		risks:     NewRiskService(db, rtRepo, repos.NewRiskRepo(db, log), log, m),
	}
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func carsSchema() validation.SchemaInput {
	return validation.SchemaInput{
		Name:        "Cars",
		Description: "Risk template for cars",
		Fields: []validation.FieldInput{
			{Name: "Name", FieldType: "text"},
			{Name: "Model No.", FieldType: "number"},
			{Name: "Purchase Date", FieldType: "date"},
			{Name: "Car Type", FieldType: "enum", Options: []validation.OptionInput{
				{Value: "Sedan"}, {Value: "SUV"},
			}},
		},
	}
}

func (f *fixture) createCars(t *testing.T) *models.RiskType {
	t.Helper()
	rt, err := f.riskTypes.Create(context.Background(), carsSchema())
	require.NoError(t, err)
	return rt
}

// hyundai fills every field of the Cars type.
func hyundai(t *testing.T, rt *models.RiskType) validation.RecordInput {
	t.Helper()
	return validation.RecordInput{
		RiskTypeID: raw(t, rt.ID),
		Values: []validation.ValueInput{
			{FieldID: raw(t, rt.Fields[0].ID), Value: raw(t, "Hyundai")},
			{FieldID: raw(t, rt.Fields[1].ID), Value: raw(t, 1234)},
			{FieldID: raw(t, rt.Fields[2].ID), Value: raw(t, "2018-01-25")},
			{FieldID: raw(t, rt.Fields[3].ID), Value: raw(t, rt.Fields[3].Options[1].ID)},
		},
	}
}

func validationErrors(t *testing.T, err error) apperr.ErrorMap {
	t.Helper()
	require.True(t, errors.Is(err, apperr.ErrValidation), "expected validation error, got %v", err)
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	return verr.Errors
}

func writes(t *testing.T, m *metrics.Metrics) int {
	t.Helper()
	n, err := promtest.GatherAndCount(m.Registry, "riskregistry_writes_total")
	require.NoError(t, err)
	return n
}

func TestRiskTypeService_Create(t *testing.T) {
	f := newFixture(t)
	rt := f.createCars(t)

	require.NotZero(t, rt.ID)
	require.Len(t, rt.Fields, 4)
	assert.Equal(t, models.FieldTypeEnum, rt.Fields[3].FieldType)
	require.Len(t, rt.Fields[3].Options, 2)
	assert.NotZero(t, rt.Fields[3].Options[0].ID)

	got, err := f.riskTypes.Get(context.Background(), rt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cars", got.Name)
	assert.Len(t, got.Fields, 4)
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &models.AuditLog{}))
}

func TestRiskTypeService_CreateRejected(t *testing.T) {
	f := newFixture(t)
	in := carsSchema()
	in.Fields[3].Options = nil

	_, err := f.riskTypes.Create(context.Background(), in)
	errs := validationErrors(t, err)
	assert.Contains(t, errs, "fields")

	assert.Zero(t, testutil.Count(t, f.db, &models.RiskType{}))
	assert.Zero(t, testutil.Count(t, f.db, &models.Field{}))
	assert.Zero(t, testutil.Count(t, f.db, &models.AuditLog{}))
	assert.Equal(t, 1, writes(t, f.metrics))
}

func TestRiskTypeService_CreateRollsBack(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_links", func(tx *gorm.DB) {
		if tx.Statement.Table == "field_options" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err := f.riskTypes.Create(context.Background(), carsSchema())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrStorage))

	assert.Zero(t, testutil.Count(t, f.db, &models.RiskType{}))
	assert.Zero(t, testutil.Count(t, f.db, &models.Field{}))
	assert.Zero(t, testutil.Count(t, f.db, &models.OptionValue{}))
	assert.Zero(t, testutil.Count(t, f.db, &models.FieldOption{}))
	assert.Zero(t, testutil.Count(t, f.db, &models.AuditLog{}))
}

func TestRiskTypeService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rt := f.createCars(t)

	name := "Vehicles"
	got, err := f.riskTypes.Update(ctx, rt.ID, validation.SchemaUpdate{Name: &name}, true)
	require.NoError(t, err)
	assert.Equal(t, "Vehicles", got.Name)
	assert.Equal(t, "Risk template for cars", got.Description)
	assert.Len(t, got.Fields, 4)

	_, err = f.riskTypes.Update(ctx, rt.ID, validation.SchemaUpdate{Name: &name}, false)
	require.NoError(t, err)
	got, err = f.riskTypes.Get(ctx, rt.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Description)

	_, err = f.riskTypes.Update(ctx, 999, validation.SchemaUpdate{Name: &name}, true)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	blank := "  "
	_, err = f.riskTypes.Update(ctx, rt.ID, validation.SchemaUpdate{Name: &blank}, true)
	assert.Contains(t, validationErrors(t, err), "name")
}

func TestRiskTypeService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rt := f.createCars(t)
	_, err := f.risks.Create(ctx, hyundai(t, rt))
	require.NoError(t, err)

	require.NoError(t, f.riskTypes.Delete(ctx, rt.ID))

	assert.Zero(t, testutil.Count(t, f.db, &models.RiskType{}))
	assert.Zero(t, testutil.Count(t, f.db, &models.Field{}))
	assert.Zero(t, testutil.Count(t, f.db, &models.Risk{}))
	assert.Zero(t, testutil.Count(t, f.db, &models.FieldValue{}))

	err = f.riskTypes.Delete(ctx, rt.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRiskTypeService_DeleteOption(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rt := f.createCars(t)
	risk, err := f.risks.Create(ctx, hyundai(t, rt))
	require.NoError(t, err)

	require.NoError(t, f.riskTypes.DeleteOption(ctx, rt.Fields[3].Options[1].ID))

	got, err := f.risks.Get(ctx, risk.ID)
	require.NoError(t, err)
	assert.Len(t, got.Values, 3)

	reloaded, err := f.riskTypes.Get(ctx, rt.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Fields[3].Options, 1)

	err = f.riskTypes.DeleteOption(ctx, 999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRiskService_CreateHyundai(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rt := f.createCars(t)

	risk, err := f.risks.Create(ctx, hyundai(t, rt))
	require.NoError(t, err)
	require.NotZero(t, risk.ID)
	assert.Equal(t, rt.ID, risk.RiskTypeID)
	require.Len(t, risk.Values, 4)

	want := []any{"Hyundai", int64(1234), "2018-01-25", rt.Fields[3].Options[1].ID}
	for i, fv := range risk.Values {
		v, err := fv.GetValue()
		require.NoError(t, err)
		assert.Equal(t, rt.Fields[i].ID, fv.FieldID)
		assert.Equal(t, want[i], v.Wire())
	}

	list, err := f.risks.List(ctx, repos.RiskFilter{RiskTypeID: &rt.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRiskService_CreateCoercesValues(t *testing.T) {
	f := newFixture(t)
	rt := f.createCars(t)
	in := hyundai(t, rt)
	in.Values[0].Value = raw(t, 42)
	in.Values[1].Value = raw(t, "1234")

	risk, err := f.risks.Create(context.Background(), in)
	require.NoError(t, err)

	name, err := risk.Values[0].GetValue()
	require.NoError(t, err)
	assert.Equal(t, models.TextValue("42"), name)
	model, err := risk.Values[1].GetValue()
	require.NoError(t, err)
	assert.Equal(t, models.NumberValue(1234), model)
}

func TestRiskService_CreateRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rt := f.createCars(t)

	t.Run("missing fields", func(t *testing.T) {
		in := hyundai(t, rt)
		in.Values = in.Values[:2]
		_, err := f.risks.Create(ctx, in)
		errs := validationErrors(t, err)
		assert.Equal(t, apperr.Messages{
			"All fields are required. 'Purchase Date', 'Car Type' fields not found.",
		}, errs[apperr.NonFieldErrorsKey])
	})

	t.Run("bad date", func(t *testing.T) {
		in := hyundai(t, rt)
		in.Values[2].Value = raw(t, "25/01/2018")
		_, err := f.risks.Create(ctx, in)
		errs := validationErrors(t, err)
		assert.Contains(t, errs, "values")
	})

	t.Run("foreign option", func(t *testing.T) {
		in := hyundai(t, rt)
		in.Values[3].Value = raw(t, 999)
		_, err := f.risks.Create(ctx, in)
		errs := validationErrors(t, err)
		assert.Contains(t, errs, "values")
	})

	t.Run("unknown risk type", func(t *testing.T) {
		in := hyundai(t, rt)
		in.RiskTypeID = raw(t, 999)
		_, err := f.risks.Create(ctx, in)
		errs := validationErrors(t, err)
		assert.Contains(t, errs, "risk_type_id")
	})

	for name, ref := range map[string]json.RawMessage{
		"absent risk type":   nil,
		"null risk type":     json.RawMessage(`null`),
		"string risk type":   json.RawMessage(`"cars"`),
		"negative risk type": json.RawMessage(`-1`),
		"zero risk type":     json.RawMessage(`0`),
	} {
		t.Run(name, func(t *testing.T) {
			in := hyundai(t, rt)
			in.RiskTypeID = ref
			_, err := f.risks.Create(ctx, in)
			errs := validationErrors(t, err)
			assert.Equal(t, apperr.Messages{"invalid risk type reference"}, errs["risk_type_id"])
		})
	}

	assert.Zero(t, testutil.Count(t, f.db, &models.Risk{}))
	assert.Zero(t, testutil.Count(t, f.db, &models.FieldValue{}))
}

func TestRiskService_CreateRollsBack(t *testing.T) {
	f := newFixture(t)
	rt := f.createCars(t)

	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_values", func(tx *gorm.DB) {
		if tx.Statement.Table == "field_values" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err := f.risks.Create(context.Background(), hyundai(t, rt))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrStorage))

	assert.Zero(t, testutil.Count(t, f.db, &models.Risk{}))
	assert.Zero(t, testutil.Count(t, f.db, &models.FieldValue{}))
	var audits int64
	require.NoError(t, f.db.Model(&models.AuditLog{}).Where("entity = ?", repos.EntityRisk).Count(&audits).Error)
	assert.Zero(t, audits)
}

func TestRiskService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rt := f.createCars(t)
	risk, err := f.risks.Create(ctx, hyundai(t, rt))
	require.NoError(t, err)

	require.NoError(t, f.risks.Delete(ctx, risk.ID))
	_, err = f.risks.Get(ctx, risk.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Zero(t, testutil.Count(t, f.db, &models.FieldValue{}))
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &models.RiskType{}))

	assert.True(t, errors.Is(f.risks.Delete(ctx, risk.ID), apperr.ErrNotFound))
}
