package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

type JSONStoreTestSuite struct {
	suite.Suite
	store *JSONStore
	path  string
}

func TestJSONStoreSuite(t *testing.T) {
	suite.Run(t, new(JSONStoreTestSuite))
}

func (suite *JSONStoreTestSuite) SetupTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "state", "bot_state.json")
	suite.store = NewJSONStore(suite.path)
}

func (suite *JSONStoreTestSuite) TestLoadBeforeAnySave() {
	_, ok, err := suite.store.Load()
	suite.NoError(err)
	suite.False(ok)
}

func (suite *JSONStoreTestSuite) TestSaveLoadRoundTrip() {
	want := sampleSnapshot()
	suite.Require().NoError(suite.store.Save(want))

	got, ok, err := suite.store.Load()
	suite.Require().NoError(err)
	suite.Require().True(ok)
	suite.Equal(want, got)
}

func (suite *JSONStoreTestSuite) TestSaveCreatesParentDirectory() {
	suite.Require().NoError(suite.store.Save(sampleSnapshot()))

	info, err := os.Stat(suite.path)
	suite.Require().NoError(err)
	suite.False(info.IsDir())
}

func (suite *JSONStoreTestSuite) TestSaveReplacesPriorState() {
	first := sampleSnapshot()
	suite.Require().NoError(suite.store.Save(first))

	second := sampleSnapshot()
	second.Portfolio.CurrentCapital = 7777
	suite.Require().NoError(suite.store.Save(second))

	got, ok, err := suite.store.Load()
	suite.Require().NoError(err)
	suite.Require().True(ok)
	suite.Equal(7777.0, got.Portfolio.CurrentCapital)

	// No temp files should survive a completed save.
	entries, err := os.ReadDir(filepath.Dir(suite.path))
	suite.Require().NoError(err)
	suite.Len(entries, 1)
}

func (suite *JSONStoreTestSuite) TestLoadRejectsCorruptFile() {
	suite.Require().NoError(os.MkdirAll(filepath.Dir(suite.path), 0o755))
	suite.Require().NoError(os.WriteFile(suite.path, []byte("{not json"), 0o644))

	_, _, err := suite.store.Load()
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStateLoadFailed))
}

func (suite *JSONStoreTestSuite) TestLoadRefusesIncompatibleSchema() {
	snapshot := sampleSnapshot()
	snapshot.SchemaVersion = "3.1.0"
	suite.Require().NoError(suite.store.Save(snapshot))

	_, _, err := suite.store.Load()
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSchemaVersionMismatch))
}
