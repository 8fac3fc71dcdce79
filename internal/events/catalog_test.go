package events

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

const sampleCSV = `title,summary,time,location,url,speaker_name,speaker_role,speaker_company,speaker_linkedin,speaker_insight
AI Builders Meetup,Monthly gathering of AI engineers,June 12 2026,San Francisco,https://lu.ma/ai-builders,Jane Doe,CTO,Acme AI,janedoe,Background: built three ML platforms
AI Builders Meetup,Monthly gathering of AI engineers,June 12 2026,San Francisco,https://lu.ma/ai-builders,Sam Lee,Founder,DataCo,linkedin.com/in/samlee,Scaled DataCo to 200 people. Now angel investing.
SaaS Growth Expo,Annual exhibition for SaaS vendors with exhibitor booths,July 3 2026,Austin,https://saasgrowthexpo.com,,,,,
Rooftop Mixer,Casual drinks for operators,,San Francisco,https://lu.ma/rooftop,https://lu.ma/rooftop-fixed,,Ops Collective,,
`

type CatalogSuite struct {
	suite.Suite
	dir     string
	path    string
	catalog *Catalog
}

func (s *CatalogSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.path = filepath.Join(s.dir, "events.csv")
	s.Require().NoError(os.WriteFile(s.path, []byte(sampleCSV), 0o644))
	s.catalog = NewCatalog(s.path)
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) TestLoadGroupsRowsByURL() {
	s.Require().NoError(s.catalog.Load())
	events := s.catalog.Events()
	s.Len(events, 3)

	meetup := events[0]
	s.Equal("AI Builders Meetup", meetup.Name)
	s.Equal("https://lu.ma/ai-builders", meetup.URL)
	s.Len(meetup.Speakers, 2)
	s.Equal("Jane Doe", meetup.Speakers[0].Name)
	s.Equal("CTO", meetup.Speakers[0].Role)
}

func (s *CatalogSuite) TestSpeakerLinkedInNormalized() {
	s.Require().NoError(s.catalog.Load())
	speakers := s.catalog.Events()[0].Speakers
	s.Equal("https://linkedin.com/in/janedoe", speakers[0].LinkedIn)
	s.Equal("https://linkedin.com/in/samlee", speakers[1].LinkedIn)
}

func (s *CatalogSuite) TestSpeakerBackgroundExtraction() {
	s.Require().NoError(s.catalog.Load())
	speakers := s.catalog.Events()[0].Speakers
	s.Equal("built three ML platforms", speakers[0].Background)
	s.Equal("Scaled DataCo to 200 people", speakers[1].Background)
}

func (s *CatalogSuite) TestURLInSpeakerColumnRepaired() {
	s.Require().NoError(s.catalog.Load())
	events := s.catalog.Events()

	var mixer *Event
	for i := range events {
		if events[i].Name == "Rooftop Mixer" {
			mixer = &events[i]
		}
	}
	// The row already had a URL, so the shifted one is dropped and the
	// speaker name falls back to the company column.
	s.Require().NotNil(mixer)
	s.Equal("https://lu.ma/rooftop", mixer.URL)
	s.Require().Len(mixer.Speakers, 1)
	s.Equal("Ops Collective", mixer.Speakers[0].Name)
}

func (s *CatalogSuite) TestTradeShowFlagSetOnLoad() {
	s.Require().NoError(s.catalog.Load())
	events := s.catalog.Events()
	s.False(events[0].IsTradeShow)
	s.True(events[1].IsTradeShow)
}

func (s *CatalogSuite) TestDefaultConversionPath() {
	s.Require().NoError(s.catalog.Load())
	s.Contains(s.catalog.Events()[0].ConversionPath, "Attend AI Builders Meetup")
}

func (s *CatalogSuite) TestMissingFileIsEmptyNotError() {
	c := NewCatalog(filepath.Join(s.dir, "absent.csv"))
	s.NoError(c.Load())
	s.Empty(c.Events())
}

func (s *CatalogSuite) TestReloadReplacesEvents() {
	s.Require().NoError(s.catalog.Load())
	s.Len(s.catalog.Events(), 3)

	single := "title,url\nOnly Event,https://example.org/only\n"
	s.Require().NoError(os.WriteFile(s.path, []byte(single), 0o644))
	s.Require().NoError(s.catalog.Load())
	s.Len(s.catalog.Events(), 1)
	s.Equal("Only Event", s.catalog.Events()[0].Name)
}
