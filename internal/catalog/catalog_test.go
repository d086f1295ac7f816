package catalog_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repofleet/internal/catalog"
	"github.com/temirov/repofleet/internal/links"
)

const (
	testBaseDirectoryConstant = "/home/user/repos"
	testHomeDirectoryConstant = "/home/user"
)

func testEnvironment() catalog.Environment {
	return catalog.Environment{
		HomeDirectory:       testHomeDirectoryConstant,
		ConfigHomeDirectory: "/home/user/.config",
		DataHomeDirectory:   "/home/user/.local/share",
	}
}

func TestNewFiltersDisabledEntriesInOrder(testInstance *testing.T) {
	fleetCatalog, catalogError := catalog.New(testBaseDirectoryConstant, []catalog.Entry{
		catalog.NewEntry("zsh"),
		catalog.NewEntry("vim-chess", catalog.Disabled()),
		catalog.NewEntry("styles", catalog.WithHostGroup("gitlab")),
		catalog.NewEntry("help"),
	})
	require.NoError(testInstance, catalogError)

	entryNames := []string{}
	for _, entry := range fleetCatalog.EnabledEntries() {
		entryNames = append(entryNames, entry.Name)
	}
	require.Equal(testInstance, []string{"zsh", "styles", "help"}, entryNames)
	require.Equal(testInstance, 3, fleetCatalog.Len())
	require.Equal(testInstance, testBaseDirectoryConstant, fleetCatalog.BaseDirectory())
}

func TestEnabledEntriesReturnsCopies(testInstance *testing.T) {
	fleetCatalog, catalogError := catalog.New(testBaseDirectoryConstant, []catalog.Entry{
		catalog.NewEntry("zsh", catalog.WithLinks(catalog.Link{Source: ".zshrc", Destination: testHomeDirectoryConstant})),
	})
	require.NoError(testInstance, catalogError)

	firstEntries := fleetCatalog.EnabledEntries()
	firstEntries[0].Links[0].Source = "mutated"
	firstEntries[0].Name = "mutated"

	secondEntries := fleetCatalog.EnabledEntries()
	require.Equal(testInstance, "zsh", secondEntries[0].Name)
	require.Equal(testInstance, ".zshrc", secondEntries[0].Links[0].Source)
}

func TestNewValidatesDeclarations(testInstance *testing.T) {
	testCases := []struct {
		name          string
		baseDirectory string
		declarations  []catalog.Entry
		expectedError error
	}{
		{
			name:          "relative_base_directory",
			baseDirectory: "repos",
			expectedError: catalog.ErrRelativeBaseDirectory,
		},
		{
			name:          "empty_name",
			baseDirectory: testBaseDirectoryConstant,
			declarations:  []catalog.Entry{catalog.NewEntry(" ")},
			expectedError: catalog.ErrEmptyName,
		},
		{
			name:          "empty_host_group",
			baseDirectory: testBaseDirectoryConstant,
			declarations:  []catalog.Entry{catalog.NewEntry("zsh", catalog.WithHostGroup(""))},
			expectedError: catalog.ErrEmptyHostGroup,
		},
		{
			name:          "duplicate_name",
			baseDirectory: testBaseDirectoryConstant,
			declarations:  []catalog.Entry{catalog.NewEntry("zsh"), catalog.NewEntry("zsh", catalog.WithHostGroup("gitlab"))},
			expectedError: catalog.ErrDuplicateName,
		},
		{
			name:          "duplicate_name_even_when_disabled",
			baseDirectory: testBaseDirectoryConstant,
			declarations:  []catalog.Entry{catalog.NewEntry("zsh"), catalog.NewEntry("zsh", catalog.Disabled())},
			expectedError: catalog.ErrDuplicateName,
		},
		{
			name:          "nested_roots",
			baseDirectory: testBaseDirectoryConstant,
			declarations:  []catalog.Entry{catalog.NewEntry("vim"), catalog.NewEntry("vim/pack")},
			expectedError: catalog.ErrOverlappingRoots,
		},
		{
			name:          "equal_roots_after_cleaning",
			baseDirectory: testBaseDirectoryConstant,
			declarations:  []catalog.Entry{catalog.NewEntry("vim"), catalog.NewEntry("./vim")},
			expectedError: catalog.ErrOverlappingRoots,
		},
		{
			name:          "relative_destination",
			baseDirectory: testBaseDirectoryConstant,
			declarations:  []catalog.Entry{catalog.NewEntry("zsh", catalog.WithLinks(catalog.Link{Source: ".zshrc", Destination: "home"}))},
			expectedError: catalog.ErrRelativeDestination,
		},
		{
			name:          "absolute_source",
			baseDirectory: testBaseDirectoryConstant,
			declarations:  []catalog.Entry{catalog.NewEntry("zsh", catalog.WithLinks(catalog.Link{Source: "/etc/zshrc", Destination: testHomeDirectoryConstant}))},
			expectedError: catalog.ErrAbsoluteSource,
		},
		{
			name:          "source_outside_root",
			baseDirectory: testBaseDirectoryConstant,
			declarations:  []catalog.Entry{catalog.NewEntry("zsh", catalog.WithLinks(catalog.Link{Source: "../../etc/passwd", Destination: testHomeDirectoryConstant}))},
			expectedError: catalog.ErrSourceOutsideRoot,
		},
		{
			name:          "source_resolving_to_parent",
			baseDirectory: testBaseDirectoryConstant,
			declarations:  []catalog.Entry{catalog.NewEntry("zsh", catalog.WithLinks(catalog.Link{Source: "autoload/../..", Destination: testHomeDirectoryConstant}))},
			expectedError: catalog.ErrSourceOutsideRoot,
		},
		{
			name:          "relative_required_directory",
			baseDirectory: testBaseDirectoryConstant,
			declarations:  []catalog.Entry{catalog.NewEntry("scripts", catalog.WithRequiredDirectories("bin"))},
			expectedError: catalog.ErrRelativeRequiredDirectory,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, catalogError := catalog.New(testCase.baseDirectory, testCase.declarations)
			require.ErrorIs(testInstance, catalogError, testCase.expectedError)

			var validationError catalog.ValidationError
			require.ErrorAs(testInstance, catalogError, &validationError)
			require.NotEmpty(testInstance, validationError.Error())
		})
	}
}

func TestDefaultDeclarationsFormDisjointCatalog(testInstance *testing.T) {
	fleetCatalog, catalogError := catalog.New(testBaseDirectoryConstant, catalog.DefaultDeclarations(testEnvironment()))
	require.NoError(testInstance, catalogError)

	entries := fleetCatalog.EnabledEntries()
	roots := map[string]struct{}{}
	linksUnmanaged := []string{}
	for _, entry := range entries {
		require.NotEqual(testInstance, "vim-chess", entry.Name)
		roots[entry.RootPath(fleetCatalog.BaseDirectory())] = struct{}{}
		if !entry.ManagesLinks() {
			linksUnmanaged = append(linksUnmanaged, entry.Name)
		}
	}
	require.Len(testInstance, roots, len(entries))
	require.Equal(testInstance, []string{"bash"}, linksUnmanaged)
	require.Contains(testInstance, roots, "/home/user/repos/gitlab/styles")
}

func TestEntryResolveLinks(testInstance *testing.T) {
	entry := catalog.NewEntry("vim", catalog.WithLinks(
		catalog.Link{Destination: "/home/user/.vim", Mode: links.ModeRelative | links.ModeNoTargetDirectory},
		catalog.Link{Source: ".vimrc", Destination: testHomeDirectoryConstant, Mode: links.ModeRelative},
	))
	root := entry.RootPath(testBaseDirectoryConstant)
	require.Equal(testInstance, filepath.Join(testBaseDirectoryConstant, "github", "vim"), root)

	firstResolution := entry.ResolveLinks(root)
	require.Equal(testInstance, []links.Action{
		{Source: root, Destination: "/home/user/.vim", Mode: links.ModeRelative | links.ModeNoTargetDirectory},
		{Source: filepath.Join(root, ".vimrc"), Destination: testHomeDirectoryConstant, Mode: links.ModeRelative},
	}, firstResolution)

	otherRoot := entry.RootPath("/srv/repos")
	secondResolution := entry.ResolveLinks(otherRoot)
	require.Equal(testInstance, filepath.Join(otherRoot, ".vimrc"), secondResolution[1].Source)
	require.Empty(testInstance, entry.Links[0].Source)
	require.Equal(testInstance, ".vimrc", entry.Links[1].Source)
}
