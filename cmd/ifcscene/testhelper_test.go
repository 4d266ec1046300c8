// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const houseFile = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION((''),'2;1');
FILE_NAME('house.ifc','',(''),(''),'','','');
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
#1=IFCPROJECT('2Iicv0RnfAVPda6Sg4SE78',$,'IfcOpenHouse',$,$,$,$,$,$);
#2=IFCBUILDING('0tMDzyjmj2nB$WB5KHmpAv',$,'House',$,$,$,$,$,.ELEMENT.,$,$,$);
#3=IFCWALL('3Ep4MwCR1CQhCHl4bXX1RQ',$,'Wall',$,$,#8,#15,$,$);
#4=IFCRELAGGREGATES('0cSLmKxR5B0PVfV$0lNYzk',$,$,$,#1,(#2));
#5=IFCRELCONTAINEDINSPATIALSTRUCTURE('1Xn0CBVt94HRWG9E1Mn9tL',$,$,$,(#3),#2);
#6=IFCCARTESIANPOINT((0.,0.,0.));
#7=IFCAXIS2PLACEMENT3D(#6,$,$);
#8=IFCLOCALPLACEMENT($,#7);
#9=IFCCARTESIANPOINT((0.5,0.5));
#10=IFCAXIS2PLACEMENT2D(#9,$);
#11=IFCRECTANGLEPROFILEDEF(.AREA.,$,#10,1.,1.);
#12=IFCDIRECTION((0.,0.,1.));
#13=IFCEXTRUDEDAREASOLID(#11,#7,#12,1.);
#14=IFCSHAPEREPRESENTATION($,'Body','SweptSolid',(#13));
#15=IFCPRODUCTDEFINITIONSHAPE($,$,(#14));
ENDSEC;
END-ISO-10303-21;
`

const houseReport = `IFCPROJECT
  IFCBUILDING
    IFCWALL
      mesh ID: 13 has mesh with 36 points and 12 faces.
bbox min: (0/0/0)
bbox max: (1/1/1)
`

// workspace switches into a fresh directory, so no ifcscene.yaml is
// discovered, and returns it.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}
