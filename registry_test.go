package fanout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RegistrySuite struct {
	suite.Suite
	reg *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.reg = NewRegistry([]Destination{
		{Name: "processing", Kind: KindQueue, Target: "https://sqs.us-east-1.amazonaws.com/123/processing", Enabled: true, Description: "Main processing queue"},
		{Name: "archive", Kind: KindQueue, Target: "https://sqs.us-east-1.amazonaws.com/123/archive", Enabled: false},
		{Name: "alerts", Kind: KindTopic, Target: "arn:aws:sns:us-east-1:123:alerts", Enabled: true},
	})
}

func (s *RegistrySuite) TestEnabledKeepsOrder() {
	enabled := s.reg.Enabled()

	s.Require().Len(enabled, 2)
	s.Assert().Equal("processing", enabled[0].Name)
	s.Assert().Equal("alerts", enabled[1].Name)
}

func (s *RegistrySuite) TestDisabled() {
	disabled := s.reg.Disabled()

	s.Require().Len(disabled, 1)
	s.Assert().Equal("archive", disabled[0].Name)
}

func (s *RegistrySuite) TestCopiesInput() {
	ds := []Destination{Queue("q", "url")}
	reg := NewRegistry(ds)
	ds[0].Name = "changed"

	s.Assert().Equal("q", reg.All()[0].Name)

	all := reg.All()
	all[0].Name = "changed"
	s.Assert().Equal("q", reg.All()[0].Name)
}

func (s *RegistrySuite) TestSummary() {
	want := "Currently Enabled Destinations:\n" +
		"  1. processing (SQS)\n" +
		"     Target: https://sqs.us-east-1.amazonaws.com/123/processing\n" +
		"     Description: Main processing queue\n\n" +
		"  2. alerts (SNS)\n" +
		"     Target: arn:aws:sns:us-east-1:123:alerts\n" +
		"     Description: No description\n\n" +
		"Total Enabled Destinations: 2"

	s.Assert().Equal(want, s.reg.Summary())
}

func (s *RegistrySuite) TestSummaryEmpty() {
	reg := NewRegistry([]Destination{{Name: "off", Kind: KindQueue, Target: "u"}})

	s.Assert().Equal("No enabled destinations configured", reg.Summary())
}

func (s *RegistrySuite) TestStatus() {
	st := s.reg.Status()

	s.Assert().Equal(3, st.Total)
	s.Assert().Equal(2, st.Enabled)
	s.Assert().Equal(map[Kind]int{KindQueue: 2, KindTopic: 1}, st.Types)
	s.Require().Len(st.Destinations, 3)
	s.Assert().False(st.Destinations[1].Enabled)
	s.Assert().Equal("archive", st.Destinations[1].Name)
}

func (s *RegistrySuite) TestStatusEmpty() {
	st := NewRegistry(nil).Status()

	s.Assert().Zero(st.Total)
	s.Assert().NotNil(st.Destinations)
	s.Assert().Empty(st.Types)
}

func (s *RegistrySuite) TestValidateValid() {
	s.Assert().Empty(s.reg.Validate())
}

func (s *RegistrySuite) TestValidateReportsEveryProblem() {
	reg := NewRegistry([]Destination{
		{Name: "no-target", Kind: KindQueue, Enabled: true},
		{Name: "lambda", Kind: ParseKind("lambda"), Target: "arn:aws:lambda:x", Enabled: true},
		Queue("dup", "u1"),
		{Name: "dup", Kind: KindTopic, Target: "arn", Enabled: false},
	})

	errs := reg.Validate()
	s.Require().Len(errs, 3)

	var ve *ValidationError
	s.Require().True(errors.As(errs[0], &ve))
	s.Assert().Equal("no-target", ve.Destination)
	s.Assert().Equal(`destination "no-target" has no target`, errs[0].Error())
	s.Assert().Equal(`destination "lambda" has unsupported type: lambda`, errs[1].Error())
	s.Assert().Equal(`destination "dup" is defined more than once`, errs[2].Error())
}

func (s *RegistrySuite) TestVerify() {
	v := s.reg.Verify("2024-12-01T10:00:00Z")

	s.Assert().Equal("2024-12-01T10:00:00Z", v.Timestamp)
	s.Assert().Equal(3, v.Total)
	s.Assert().Len(v.Enabled, 2)
	s.Assert().Equal(s.reg.Summary(), v.Summary)
	s.Assert().Equal(VerificationSuccess, v.Status)
	s.Assert().Empty(v.ValidationErrors)
}

func (s *RegistrySuite) TestVerifyWarnsOnInvalid() {
	reg := NewRegistry([]Destination{{Name: "broken", Kind: KindTopic, Enabled: true}})

	v := reg.Verify("now")

	s.Assert().Equal(VerificationWarning, v.Status)
	s.Assert().Equal([]string{`destination "broken" has no target`}, v.ValidationErrors)
}

func TestParseKind(t *testing.T) {
	tests := map[string]struct {
		in    string
		want  Kind
		valid bool
	}{
		"sqs":    {"sqs", KindQueue, true},
		"queue":  {"Queue", KindQueue, true},
		"sns":    {"SNS", KindTopic, true},
		"topic":  {" topic ", KindTopic, true},
		"lambda": {"Lambda", Kind("lambda"), false},
		"empty":  {"", Kind(""), false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := ParseKind(tt.in)
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if got.Valid() != tt.valid {
				t.Errorf("Valid() = %v, want %v", got.Valid(), tt.valid)
			}
		})
	}
}
