package plan

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pbxsync/internal/pbx"
)

// testDescriptor has AppDelegate.swift registered under a Sources group and
// a single sources build phase.
const testDescriptor = `// !$*UTF8*$!
{
	objects = {

/* Begin PBXBuildFile section */
		1D1A2B722C60A1230001A234 /* AppDelegate.swift in Sources */ = {isa = PBXBuildFile; fileRef = 1D1A2B732C60A1230001A234 /* AppDelegate.swift */; };
/* End PBXBuildFile section */

/* Begin PBXFileReference section */
		1D1A2B732C60A1230001A234 /* AppDelegate.swift */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.swift; path = AppDelegate.swift; sourceTree = "<group>"; };
/* End PBXFileReference section */

/* Begin PBXGroup section */
		1DA0B2C13F60A1230001A200 = {
			isa = PBXGroup;
			children = (
				1DA0B2C13F60A1230001A201 /* Sources */,
			);
			sourceTree = "<group>";
		};
		1DA0B2C13F60A1230001A201 /* Sources */ = {
			isa = PBXGroup;
			children = (
				1D1A2B732C60A1230001A234 /* AppDelegate.swift */,
			);
			path = Sources;
			sourceTree = "<group>";
		};
/* End PBXGroup section */

/* Begin PBXProject section */
		1DC0D4E25F60A1230001A400 /* Project object */ = {
			isa = PBXProject;
			mainGroup = 1DA0B2C13F60A1230001A200;
		};
/* End PBXProject section */

/* Begin PBXSourcesBuildPhase section */
		1DB0C3D24F60A1230001A300 /* Sources */ = {
			isa = PBXSourcesBuildPhase;
			buildActionMask = 2147483647;
			files = (
				1D1A2B722C60A1230001A234 /* AppDelegate.swift in Sources */,
			);
			runOnlyForDeploymentPostprocessing = 0;
		};
/* End PBXSourcesBuildPhase section */

	};
}
`

func parseTestDescriptor(t *testing.T) *pbx.Project {
	t.Helper()
	p, err := pbx.Parse([]byte(testDescriptor))
	require.NoError(t, err)
	return p
}

func TestCompute_RegistersOnlyMissingFiles(t *testing.T) {
	t.Parallel()

	proj := parseTestDescriptor(t)
	candidates := []Candidate{
		{Name: "AppDelegate.swift", Path: "Sources/AppDelegate.swift"},
		{Name: "ChatViewController.swift", Path: "Sources/ChatViewController.swift"},
	}

	p, err := Compute(context.Background(), proj, candidates, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"ChatViewController.swift"}, p.Added)
	require.Equal(t, []Skipped{{Name: "AppDelegate.swift", Reason: SkipAlreadyRegistered}}, p.Skipped)

	// Exactly one op of each kind, in dependency order.
	require.Len(t, p.Ops, 4)
	addRef, ok := p.Ops[0].(AddFileReference)
	require.True(t, ok)
	addBF, ok := p.Ops[1].(AddBuildFile)
	require.True(t, ok)
	child, ok := p.Ops[2].(AppendGroupChild)
	require.True(t, ok)
	phase, ok := p.Ops[3].(AppendPhaseFile)
	require.True(t, ok)

	assert.Equal(t, "ChatViewController.swift", addRef.Ref.Name)
	assert.Equal(t, "sourcecode.swift", addRef.Ref.FileType)
	assert.Equal(t, addRef.Ref.ID, addBF.BuildFile.FileRef)
	assert.Equal(t, "ChatViewController.swift in Sources", addBF.BuildFile.Name)

	// Same group and same phase as the already-registered file.
	assert.Equal(t, "1DA0B2C13F60A1230001A201", child.Group)
	assert.Equal(t, addRef.Ref.ID, child.Child)
	assert.Equal(t, "1DB0C3D24F60A1230001A300", phase.Phase)
	assert.Equal(t, addBF.BuildFile.ID, phase.BuildFile)
}

func TestCompute_SkipsUnrecognizedAndEmptyNames(t *testing.T) {
	t.Parallel()

	proj := parseTestDescriptor(t)
	candidates := []Candidate{
		{Name: "README.md", Path: "README.md"},
		{Name: "", Path: "Sources/whatever"},
	}

	p, err := Compute(context.Background(), proj, candidates, Options{})
	require.NoError(t, err)

	assert.True(t, p.Empty())
	// The empty name is dropped silently; only the unrecognized type is reported.
	assert.Equal(t, []Skipped{{Name: "README.md", Reason: SkipUnrecognizedType}}, p.Skipped)
}

func TestCompute_ConfiguredExtensions(t *testing.T) {
	t.Parallel()

	proj := parseTestDescriptor(t)
	candidates := []Candidate{
		{Name: "Shader.metal", Path: "Sources/Shader.metal"},
	}

	p, err := Compute(context.Background(), proj, candidates, Options{Extensions: []string{".swift", ".metal"}})
	require.NoError(t, err)

	require.Len(t, p.Ops, 4)
	addRef := p.Ops[0].(AddFileReference)
	assert.Equal(t, "sourcecode.metal", addRef.Ref.FileType)
}

func TestCompute_DuplicateCandidateNamesPlannedOnce(t *testing.T) {
	t.Parallel()

	proj := parseTestDescriptor(t)
	candidates := []Candidate{
		{Name: "New.swift", Path: "Sources/New.swift"},
		{Name: "New.swift", Path: "Other/New.swift"},
	}

	p, err := Compute(context.Background(), proj, candidates, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"New.swift"}, p.Added)
	assert.Equal(t, []Skipped{{Name: "New.swift", Reason: SkipAlreadyRegistered}}, p.Skipped)
}

func TestCompute_CreatesGroupPerFolder(t *testing.T) {
	t.Parallel()

	proj := parseTestDescriptor(t)
	candidates := []Candidate{
		{Name: "ChatViewController.swift", Path: "Chat/ChatViewController.swift"},
		{Name: "ChatModel.swift", Path: "Chat/ChatModel.swift"},
	}

	p, err := Compute(context.Background(), proj, candidates, Options{CreateGroups: true})
	require.NoError(t, err)

	var groups []AddGroup
	for _, op := range p.Ops {
		if g, ok := op.(AddGroup); ok {
			groups = append(groups, g)
		}
	}
	require.Len(t, groups, 1, "one shared folder should yield one new group")
	assert.Equal(t, "Chat", groups[0].Group.Name)

	// The new group must be attached to the main group before any file
	// lands inside it.
	attached := false
	for _, op := range p.Ops {
		if c, ok := op.(AppendGroupChild); ok {
			if c.Child == groups[0].Group.ID {
				assert.Equal(t, "1DA0B2C13F60A1230001A200", c.Group)
				attached = true
				continue
			}
			if c.Group == groups[0].Group.ID {
				assert.True(t, attached, "file appended to group before the group was attached")
			}
		}
	}
	assert.True(t, attached)
}

func TestCompute_FallsBackToMainGroup(t *testing.T) {
	t.Parallel()

	proj := parseTestDescriptor(t)
	candidates := []Candidate{
		{Name: "Orphan.swift", Path: "Nowhere/Orphan.swift"},
	}

	p, err := Compute(context.Background(), proj, candidates, Options{CreateGroups: false})
	require.NoError(t, err)

	require.Len(t, p.Ops, 4)
	child := p.Ops[2].(AppendGroupChild)
	assert.Equal(t, "1DA0B2C13F60A1230001A200", child.Group)
}

func TestCompute_AnchorNotFound(t *testing.T) {
	t.Parallel()

	t.Run("no sources build phase", func(t *testing.T) {
		t.Parallel()

		// Keep the section markers, drop the phase record itself.
		gutted := testDescriptor
		start := strings.Index(gutted, "\t\t1DB0C3D24F60A1230001A300")
		end := strings.Index(gutted, "/* End PBXSourcesBuildPhase section */")
		require.True(t, start > 0 && end > start)
		gutted = gutted[:start] + gutted[end:]

		proj, err := pbx.Parse([]byte(gutted))
		require.NoError(t, err)

		_, err = Compute(context.Background(), proj, []Candidate{{Name: "New.swift", Path: "Sources/New.swift"}}, Options{})
		var anchor *AnchorNotFoundError
		require.ErrorAs(t, err, &anchor)
		assert.Equal(t, "sources build phase", anchor.Anchor)
	})

	t.Run("configured target group missing", func(t *testing.T) {
		t.Parallel()

		proj := parseTestDescriptor(t)
		opts := Options{CreateGroups: true, TargetGroup: "Features"}
		_, err := Compute(context.Background(), proj, []Candidate{{Name: "New.swift", Path: "Chat/New.swift"}}, opts)

		var anchor *AnchorNotFoundError
		require.ErrorAs(t, err, &anchor)
		assert.Equal(t, "group Features", anchor.Anchor)
	})
}

func TestCompute_EmptyCandidates(t *testing.T) {
	t.Parallel()

	proj := parseTestDescriptor(t)
	p, err := Compute(context.Background(), proj, nil, Options{})
	require.NoError(t, err)
	assert.True(t, p.Empty())
}
