package classify

import "fmt"

// imageInstruction is sent together with a captured QR code image.
const imageInstruction = `You are a security analyst who specializes in QR code fraud ("quishing") and phishing.

1. Read the content encoded in the QR code shown in the image (URL, text, payment request, etc.).
2. Assess that content for security risks, in particular:
   - phishing patterns such as typosquatted brands and unusual top-level domains
   - direct downloads of executables or installers (.apk, .exe, .msi)
   - payment schemes disguised as utility or parking apps
   - malicious or chained redirects and URL shorteners hiding the destination
3. Answer with a JSON object that follows the response schema.`

// textInstructionFormat wraps free text submitted for analysis.
const textInstructionFormat = `You are a security analyst. The user submitted the following text or URL for a security check.
It may have been decoded from a QR code or pasted by hand.

Content to analyze: %q

1. Look for phishing indicators, malicious or look-alike domains, dangerous file extensions (apk, exe) and scam language.
2. Decide whether it is a security risk (phishing, malware, scam) or safe.
3. Answer with a JSON object that follows the response schema.`

// fraudCasesInstructionFormat asks for a batch of case studies.
const fraudCasesInstructionFormat = `Write %d distinct, realistic examples of recent QR code fraud cases (quishing).
Cover varied scenarios such as parking meters, fake traffic citations, crypto airdrops and login hijacking.
Give every case a unique id. Answer with a JSON array that follows the response schema.`

// quizInstruction asks for one scenario question.
const quizInstruction = `Write one multiple-choice question that tests whether a user can spot a QR code scam.
Describe a concrete scenario, for example finding a sticker on a parking meter.
Provide exactly 3 options and mark the correct one with its 0-based index.
Answer with a JSON object that follows the response schema.`

// textInstruction returns the instruction for a text classification.
func textInstruction(text string) string {
	return fmt.Sprintf(textInstructionFormat, text)
}

// fraudCasesInstruction returns the instruction for a case batch of size n.
func fraudCasesInstruction(n int) string {
	return fmt.Sprintf(fraudCasesInstructionFormat, n)
}
