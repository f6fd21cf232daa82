package config

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tauraamui/framegrab/pkg/configdef"
)

type CreateConfigTestSuite struct {
	suite.Suite
	is                   *is.I
	configCreateResolver configdef.CreateResolver
	fs                   afero.Fs
	userConfigDirRef     func() (string, error)
}

func (suite *CreateConfigTestSuite) SetupSuite() {
	suite.is = is.New(suite.T())
	suite.fs = afero.NewMemMapFs()
	suite.configCreateResolver = ResolverFor("")

	// use in memory FS in implementation for tests
	fs = suite.fs

	suite.userConfigDirRef = userConfigDir
	userConfigDir = func() (string, error) { return "/testroot/config", nil }
}

func (suite *CreateConfigTestSuite) TearDownSuite() {
	fs = afero.NewOsFs()
	userConfigDir = suite.userConfigDirRef
}

func (suite *CreateConfigTestSuite) TearDownTest() {
	suite.is.NoErr(suite.fs.RemoveAll("/testroot"))
}

func (suite *CreateConfigTestSuite) TestConfigCreate() {
	path, err := suite.configCreateResolver.Create()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/testroot/config/tacusci/framegrab/config.json", path)

	loadedConfig, err := suite.configCreateResolver.Resolve()
	assert.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), Defaults(), loadedConfig)
}

func (suite *CreateConfigTestSuite) TestConfigCreateFailsDueToAlreadyExisting() {
	_, err := suite.configCreateResolver.Create()
	suite.is.NoErr(err)
	_, err = suite.configCreateResolver.Create()
	suite.is.Equal(err.Error(), "config file already exists")
	suite.is.True(errors.Is(err, configdef.ErrConfigAlreadyExists))
}

func (suite *CreateConfigTestSuite) TestConfigCreateAtExplicitPath() {
	resolver := defaultResolver{path: "/testroot/explicit/framegrab.json"}
	path, err := resolver.Create()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/testroot/explicit/framegrab.json", path)

	exists, err := afero.Exists(suite.fs, path)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), exists)
}

func TestCreateConfigTestSuite(t *testing.T) {
	suite.Run(t, &CreateConfigTestSuite{})
}
