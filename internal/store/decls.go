package store

import (
	"database/sql"
	"fmt"
)

// --- File operations ---

func (s *Store) InsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO files (path, hash, line_count, last_indexed) VALUES (?, ?, ?, ?)",
		f.Path, f.Hash, f.LineCount, f.LastIndexed,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	return id, nil
}

func (s *Store) FileByPath(path string) (*File, error) {
	f := &File{}
	err := s.db.QueryRow(
		"SELECT id, path, hash, line_count, last_indexed FROM files WHERE path = ?", path,
	).Scan(&f.ID, &f.Path, &f.Hash, &f.LineCount, &f.LastIndexed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

func (s *Store) Files() ([]*File, error) {
	rows, err := s.db.Query("SELECT id, path, hash, line_count, last_indexed FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(&f.ID, &f.Path, &f.Hash, &f.LineCount, &f.LastIndexed); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// --- Decl operations ---

func (s *Store) InsertDecl(d *Decl) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO decls
		 (file_id, name, kind, container, receiver, return_type, is_operator,
		  start_line, start_col, end_line, end_col, parent_decl_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.FileID, d.Name, d.Kind, d.Container, d.Receiver, d.ReturnType, d.IsOperator,
		d.StartLine, d.StartCol, d.EndLine, d.EndCol, d.ParentDeclID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert decl: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	d.ID = id
	return id, nil
}

const declColumns = `id, file_id, name, kind, container, receiver, return_type,
	is_operator, start_line, start_col, end_line, end_col, parent_decl_id`

func scanDecl(rows *sql.Rows) (*Decl, error) {
	d := &Decl{}
	err := rows.Scan(&d.ID, &d.FileID, &d.Name, &d.Kind, &d.Container, &d.Receiver,
		&d.ReturnType, &d.IsOperator, &d.StartLine, &d.StartCol, &d.EndLine, &d.EndCol,
		&d.ParentDeclID)
	if err != nil {
		return nil, fmt.Errorf("scan decl: %w", err)
	}
	return d, nil
}

// DeclsByName returns declarations with the given name across all files, in
// insertion order.
func (s *Store) DeclsByName(name string) ([]*Decl, error) {
	rows, err := s.db.Query("SELECT "+declColumns+" FROM decls WHERE name = ? ORDER BY id", name)
	if err != nil {
		return nil, fmt.Errorf("decls by name: %w", err)
	}
	defer rows.Close()
	var decls []*Decl
	for rows.Next() {
		d, err := scanDecl(rows)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, rows.Err()
}

// DeclsByFile returns a file's declarations in document order.
func (s *Store) DeclsByFile(fileID int64) ([]*Decl, error) {
	rows, err := s.db.Query(
		"SELECT "+declColumns+" FROM decls WHERE file_id = ? ORDER BY start_line, start_col", fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("decls by file: %w", err)
	}
	defer rows.Close()
	var decls []*Decl
	for rows.Next() {
		d, err := scanDecl(rows)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, rows.Err()
}

// FileByID returns the file record for id, or nil when absent.
func (s *Store) FileByID(id int64) (*File, error) {
	f := &File{}
	err := s.db.QueryRow(
		"SELECT id, path, hash, line_count, last_indexed FROM files WHERE id = ?", id,
	).Scan(&f.ID, &f.Path, &f.Hash, &f.LineCount, &f.LastIndexed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by id: %w", err)
	}
	return f, nil
}

// --- Parameter operations ---

func (s *Store) InsertDeclParam(p *DeclParam) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO decl_params (decl_id, name, ordinal, type_expr, has_default) VALUES (?, ?, ?, ?, ?)",
		p.DeclID, p.Name, p.Ordinal, p.TypeExpr, p.HasDefault,
	)
	if err != nil {
		return 0, fmt.Errorf("insert decl param: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	p.ID = id
	return id, nil
}

// ParamsByDecl returns a declaration's parameters in ordinal order.
func (s *Store) ParamsByDecl(declID int64) ([]*DeclParam, error) {
	rows, err := s.db.Query(
		"SELECT id, decl_id, name, ordinal, type_expr, has_default FROM decl_params WHERE decl_id = ? ORDER BY ordinal",
		declID,
	)
	if err != nil {
		return nil, fmt.Errorf("params by decl: %w", err)
	}
	defer rows.Close()
	var params []*DeclParam
	for rows.Next() {
		p := &DeclParam{}
		if err := rows.Scan(&p.ID, &p.DeclID, &p.Name, &p.Ordinal, &p.TypeExpr, &p.HasDefault); err != nil {
			return nil, fmt.Errorf("scan decl param: %w", err)
		}
		params = append(params, p)
	}
	return params, rows.Err()
}
