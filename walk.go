package foldercrypt

import (
	"io"
	"os"
	"path"
	"sort"
)

// walkFiles calls visit for every regular file under root, in lexical order,
// descending into directories. The sentinel at root, symbolic links and other
// non-regular entries are skipped. A directory that cannot be listed, and a
// file named like a temporary file, are reported to fail and the walk
// continues.
func walkFiles(fsys FileSystem, root string, visit func(fileJob), fail func(fileResult)) {
	walkDir(fsys, root, root, visit, fail)
}

func walkDir(fsys FileSystem, root, dir string, visit func(fileJob), fail func(fileResult)) {
	entries, err := readDir(fsys, dir)
	if err != nil {
		fail(fileResult{path: dir, kind: KindRead, err: NewIOError("readdir", dir, err)})
		return
	}

	for _, info := range entries {
		name := info.Name()
		if name == "." || name == ".." {
			continue
		}
		p := path.Join(dir, name)

		switch mode := info.Mode(); {
		case mode.IsDir():
			walkDir(fsys, root, p, visit, fail)
		case !mode.IsRegular():
			log.Debugf("skipping non-regular file %s (%s)", p, mode.Type())
		case dir == root && name == SentinelName:
			// salt marker
		case isTempName(name):
			fail(fileResult{path: p, kind: KindSkipped, err: NewIOError("skip", p, ErrStaleTempFile)})
		default:
			visit(fileJob{path: p, perm: mode.Perm()})
		}
	}
}

// readDir lists dir without following symbolic links
func readDir(fsys FileSystem, dir string) ([]os.FileInfo, error) {
	f, err := fsys.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.Readdir(-1)
	if err != nil && err != io.EOF {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}
