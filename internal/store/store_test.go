package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

// insertTestFile inserts a file and returns it with ID set.
func insertTestFile(t *testing.T, s *Store, path string) *File {
	t.Helper()
	f := &File{Path: path, Hash: "abc123", LineCount: 10, LastIndexed: time.Now().Truncate(time.Second)}
	id, err := s.InsertFile(f)
	require.NoError(t, err)
	require.Positive(t, id)
	return f
}

// insertTestDecl inserts a declaration with minimal required fields.
func insertTestDecl(t *testing.T, s *Store, fileID int64, name, kind string) *Decl {
	t.Helper()
	d := &Decl{
		FileID: fileID, Name: name, Kind: kind,
		StartLine: 1, StartCol: 1, EndLine: 3, EndCol: 1,
	}
	id, err := s.InsertDecl(d)
	require.NoError(t, err)
	require.Positive(t, id)
	return d
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
	require.NoError(t, s.Migrate())
}

func TestNewStore_InvalidPath(t *testing.T) {
	t.Parallel()
	_, err := NewStore("/nonexistent/dir/db.sqlite")
	require.Error(t, err)
}

func TestInsertFile_AndLookup(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	f := insertTestFile(t, s, "src/Main.kt")

	got, err := s.FileByPath("src/Main.kt")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, f.ID, got.ID)
	assert.Equal(t, "abc123", got.Hash)
	assert.Equal(t, 10, got.LineCount)

	byID, err := s.FileByID(f.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "src/Main.kt", byID.Path)
}

func TestFileByPath_Missing(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	got, err := s.FileByPath("nope.kt")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFiles_SortedByPath(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	insertTestFile(t, s, "b.kt")
	insertTestFile(t, s, "a.kt")

	files, err := s.Files()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.kt", files[0].Path)
	assert.Equal(t, "b.kt", files[1].Path)
}

func TestInsertFile_DuplicatePathFails(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	insertTestFile(t, s, "dup.kt")
	_, err := s.InsertFile(&File{Path: "dup.kt", LastIndexed: time.Now()})
	require.Error(t, err)
}

func TestDeclsByName(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	f := insertTestFile(t, s, "a.kt")
	insertTestDecl(t, s, f.ID, "plus", KindFunction)
	insertTestDecl(t, s, f.ID, "plus", KindFunction)
	insertTestDecl(t, s, f.ID, "minus", KindFunction)

	decls, err := s.DeclsByName("plus")
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Less(t, decls[0].ID, decls[1].ID)

	none, err := s.DeclsByName("unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeclsByFile_DocumentOrder(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	f := insertTestFile(t, s, "a.kt")

	late := &Decl{FileID: f.ID, Name: "second", Kind: KindFunction, StartLine: 20, StartCol: 1}
	_, err := s.InsertDecl(late)
	require.NoError(t, err)
	early := &Decl{FileID: f.ID, Name: "first", Kind: KindFunction, StartLine: 5, StartCol: 1}
	_, err = s.InsertDecl(early)
	require.NoError(t, err)

	decls, err := s.DeclsByFile(f.ID)
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, "first", decls[0].Name)
	assert.Equal(t, "second", decls[1].Name)
}

func TestDecl_RoundtripsAllFields(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	f := insertTestFile(t, s, "a.kt")

	d := &Decl{
		FileID: f.ID, Name: "twice", Kind: KindFunction,
		Container: "Math", Receiver: "Int", ReturnType: "Int", IsOperator: true,
		StartLine: 2, StartCol: 1, EndLine: 4, EndCol: 2,
	}
	_, err := s.InsertDecl(d)
	require.NoError(t, err)

	decls, err := s.DeclsByName("twice")
	require.NoError(t, err)
	require.Len(t, decls, 1)
	got := decls[0]
	assert.Equal(t, "Math", got.Container)
	assert.Equal(t, "Int", got.Receiver)
	assert.Equal(t, "Int", got.ReturnType)
	assert.True(t, got.IsOperator)
	assert.Equal(t, 2, got.StartLine)
	assert.Equal(t, 4, got.EndLine)
}

func TestParamsByDecl_OrdinalOrder(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	f := insertTestFile(t, s, "a.kt")
	d := insertTestDecl(t, s, f.ID, "f", KindFunction)

	for i, name := range []string{"a", "b", "c"} {
		_, err := s.InsertDeclParam(&DeclParam{
			DeclID: d.ID, Name: name, Ordinal: i, TypeExpr: "Int", HasDefault: i == 2,
		})
		require.NoError(t, err)
	}

	params, err := s.ParamsByDecl(d.ID)
	require.NoError(t, err)
	require.Len(t, params, 3)
	assert.Equal(t, "a", params[0].Name)
	assert.Equal(t, "c", params[2].Name)
	assert.False(t, params[0].HasDefault)
	assert.True(t, params[2].HasDefault)
}

func TestDeleteFileData_RemovesEverything(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	f := insertTestFile(t, s, "a.kt")
	keep := insertTestFile(t, s, "b.kt")

	d := insertTestDecl(t, s, f.ID, "gone", KindFunction)
	_, err := s.InsertDeclParam(&DeclParam{DeclID: d.ID, Name: "x", Ordinal: 0})
	require.NoError(t, err)
	insertTestDecl(t, s, keep.ID, "stays", KindFunction)

	require.NoError(t, s.DeleteFileData(f.ID))

	gone, err := s.FileByPath("a.kt")
	require.NoError(t, err)
	assert.Nil(t, gone)

	decls, err := s.DeclsByName("gone")
	require.NoError(t, err)
	assert.Empty(t, decls)

	params, err := s.ParamsByDecl(d.ID)
	require.NoError(t, err)
	assert.Empty(t, params)

	stays, err := s.DeclsByName("stays")
	require.NoError(t, err)
	assert.Len(t, stays, 1)
}

func TestMetadata_SetGetUpsert(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	v, err := s.GetMetadata("missing")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, s.SetMetadata("stubs_hash", "aaa"))
	require.NoError(t, s.SetMetadata("stubs_hash", "bbb"))

	v, err = s.GetMetadata("stubs_hash")
	require.NoError(t, err)
	assert.Equal(t, "bbb", v)
}
