package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// QC is a whitespace-delimited assembly QC table with the columns the
// report drops.
const QC = `file	format	type	num_seqs	sum_len	min_len	avg_len	max_len	Q1	Q2	Q3	sum_gap	N50	Q20(%)	Q30(%)	AvgQual	GC(%)	sum_n
results/assembly/sample1.fasta	FASTA	DNA	61	2811233	203	46085.8	312008	2137	9561	61270	0	118462	0	0	0	32.77	0
results/assembly/sample2.fasta	FASTA	DNA	75	2790101	211	37201.3	254112	1933	8712	52066	0	101337	0	0	0	32.81	0
`

// MLST is a ten-column header-less mlst result.
const MLST = "results/assembly/sample1.fasta\tsaureus\t8\tarcC(3)\taroE(3)\tglpF(1)\tgmk(1)\tpta(4)\ttpi(4)\tyqiL(3)\n" +
	"results/assembly/sample2.fasta\tsaureus\t5\tarcC(1)\taroE(4)\tglpF(1)\tgmk(4)\tpta(12)\ttpi(1)\tyqiL(10)\n"

// AMR is an abricate summary in CSV form.
const AMR = `#FILE,SEQUENCE,START,END,STRAND,GENE,COVERAGE,%COVERAGE,%IDENTITY,DATABASE,ACCESSION,PRODUCT,RESISTANCE
results/assembly/sample1.fasta,contig_1,1001,1846,+,blaZ,1-846/846,100.00,100.00,ncbi,NG_055999.1,penicillin-hydrolyzing class A beta-lactamase BlaZ,BETA-LACTAM
results/assembly/sample1.fasta,contig_4,2051,4057,+,mecA,1-2007/2007,100.00,100.00,ncbi,NG_047945.1,PBP2a family beta-lactam-resistant peptidoglycan transpeptidase MecA,METHICILLIN
results/assembly/sample2.fasta,contig_2,100,945,-,blaZ,1-846/846,100.00,99.88,ncbi,NG_055999.1,penicillin-hydrolyzing class A beta-lactamase BlaZ,BETA-LACTAM
results/assembly/sample2.fasta,contig_9,300,1145,+,blaZ,1-846/846,100.00,99.76,ncbi,NG_055999.1,penicillin-hydrolyzing class A beta-lactamase BlaZ,BETA-LACTAM
`

// AMRHeaderOnly is an abricate summary with no detections.
const AMRHeaderOnly = "#FILE,SEQUENCE,START,END,STRAND,GENE,COVERAGE,%COVERAGE,%IDENTITY,DATABASE,ACCESSION,PRODUCT,RESISTANCE\n"

// Inputs holds the paths written by WriteInputs.
type Inputs struct {
	Dir  string
	QC   string
	MLST string
	AMR  string
}

// WriteInputs writes the three fixture inputs into a fresh temp directory.
// An empty argument falls back to the matching default fixture.
func WriteInputs(t testing.TB, qc, mlst, amr string) Inputs {
	t.Helper()
	if qc == "" {
		qc = QC
	}
	if mlst == "" {
		mlst = MLST
	}
	if amr == "" {
		amr = AMR
	}

	dir := t.TempDir()
	in := Inputs{
		Dir:  dir,
		QC:   filepath.Join(dir, "qc.tsv"),
		MLST: filepath.Join(dir, "mlst.tsv"),
		AMR:  filepath.Join(dir, "amr.csv"),
	}
	for path, content := range map[string]string{in.QC: qc, in.MLST: mlst, in.AMR: amr} {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write fixture %s: %v", path, err)
		}
	}
	return in
}
